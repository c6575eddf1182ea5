package models

import "encoding/json"

type Tag struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TagName  string    `json:"tag_name"`
	Products []Product `gorm:"many2many:product_tags;" json:"products,omitempty"`
}

func (t *Tag) TableName() string {
	return "tags"
}

// MarshalJSON lists the tag's products without their own category and tags.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       uint              `json:"id"`
		TagName  string            `json:"tag_name"`
		Products *[]ProductSummary `json:"products,omitempty"`
	}{t.ID, t.TagName, summarize(t.Products)})
}
