package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go out as JSON numbers, e.g. 14.99 rather than "14.99".
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Category    *Category       `json:"category"`
	Tags        []Tag           `gorm:"many2many:product_tags;" json:"tags"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductSummary is a product without its associations, as listed under a category or tag.
type ProductSummary struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *uint           `json:"category_id"`
}

// summarize returns nil for products that were never loaded, so the key can be left out.
func summarize(products []Product) *[]ProductSummary {
	if products == nil {
		return nil
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, ProductSummary{
			ID:          p.ID,
			ProductName: p.ProductName,
			Price:       p.Price,
			Stock:       p.Stock,
			CategoryID:  p.CategoryID,
		})
	}
	return &summaries
}
