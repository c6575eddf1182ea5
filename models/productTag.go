package models

// ProductTag is the join row between Product and Tag. It carries its own id so that
// single associations can be removed without touching the others.
type ProductTag struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	TagID     uint `gorm:"not null;index" json:"tag_id"`
}

func (pt *ProductTag) TableName() string {
	return "product_tags"
}
