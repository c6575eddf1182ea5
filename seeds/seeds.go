package seeds

import (
	"context"
	"ecommerce-backend/store"
	"fmt"
	"github.com/shopspring/decimal"
)

var categoryNames = []string{"Shirts", "Shorts", "Music", "Hats", "Shoes"}

var tagNames = []string{"rock music", "pop music", "blue", "red", "green", "white", "gold", "pop culture"}

// Category and tag fields are 1-based positions in the lists above.
var products = []struct {
	name     string
	price    string
	stock    int
	category int
	tags     []int
}{
	{"Plain T-Shirt", "14.99", 14, 1, []int{6, 7, 8}},
	{"Running Sneakers", "90.00", 25, 5, []int{6}},
	{"Branded Baseball Hat", "22.99", 12, 4, []int{1, 3, 4, 5}},
	{"Top 40 Music Compilation Vinyl Record", "12.99", 50, 3, []int{1, 2, 8}},
	{"Cargo Shorts", "29.99", 22, 2, []int{3}},
}

type Summary struct {
	Categories int
	Tags       int
	Products   int
}

// Seed inserts the sample catalogue through the store.
func Seed(ctx context.Context, s store.Store) (Summary, error) {
	var summary Summary

	categoryIDs := make([]uint, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := s.CreateCategory(ctx, name)
		if err != nil {
			return summary, fmt.Errorf("seeding category %q: %w", name, err)
		}
		categoryIDs = append(categoryIDs, category.ID)
		summary.Categories++
	}

	tagIDs := make([]uint, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := s.CreateTag(ctx, name)
		if err != nil {
			return summary, fmt.Errorf("seeding tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
		summary.Tags++
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return summary, fmt.Errorf("seeding product %q: %w", p.name, err)
		}

		productTags := make([]uint, 0, len(p.tags))
		for _, position := range p.tags {
			productTags = append(productTags, tagIDs[position-1])
		}

		_, err = s.CreateProduct(ctx, store.NewProduct{
			ProductName: p.name,
			Price:       price,
			Stock:       p.stock,
			CategoryID:  &categoryIDs[p.category-1],
			TagIDs:      productTags,
		})
		if err != nil {
			return summary, fmt.Errorf("seeding product %q: %w", p.name, err)
		}
		summary.Products++
	}

	return summary, nil
}
