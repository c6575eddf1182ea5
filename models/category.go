package models

import "encoding/json"

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryName string    `gorm:"not null" json:"category_name"`
	Products     []Product `json:"products,omitempty"`
}

func (c *Category) TableName() string {
	return "categories"
}

// MarshalJSON lists the category's products without their own category and tags.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           uint              `json:"id"`
		CategoryName string            `json:"category_name"`
		Products     *[]ProductSummary `json:"products,omitempty"`
	}{c.ID, c.CategoryName, summarize(c.Products)})
}
