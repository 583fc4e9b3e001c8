package repository

import (
	"time"

	"storefront/models"
)

// isoLayout matches the millisecond UTC timestamps the storefront has always served
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// ToView converts a stored product to its API representation
func ToView(p models.Product) models.ProductView {
	gallery := p.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	return models.ProductView{
		ID:            p.ID.Hex(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		PhotoPath:     p.PhotoPath,
		Gallery:       gallery,
		Stock:         p.Stock,
		Category:      p.Category,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

// ToViews converts a list of products, never returning nil
func ToViews(products []models.Product) []models.ProductView {
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToView(p))
	}
	return views
}

// ToSummary projects a product to the fields search results carry
func ToSummary(p models.Product) models.ProductSummary {
	return models.ProductSummary{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Rating:      p.Rating,
		PhotoPath:   p.PhotoPath,
		Stock:       p.Stock,
		Category:    p.Category,
	}
}
