package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the persisted catalog document
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Price         float64            `bson:"price"`
	OriginalPrice *float64           `bson:"originalPrice,omitempty"`
	Discount      *int               `bson:"discount,omitempty"`
	Rating        float64            `bson:"rating"`
	Reviews       int                `bson:"reviews"`
	PhotoPath     string             `bson:"photo_path"`
	Gallery       []string           `bson:"gallery"`
	Stock         int                `bson:"stock"`
	Category      string             `bson:"category"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// ProductView is the API and template representation of a product
type ProductView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Discount      *int     `json:"discount,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	PhotoPath     string   `json:"photo_path"`
	Gallery       []string `json:"gallery"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// ProductSummary is the reduced view returned by search
type ProductSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	PhotoPath   string  `json:"photo_path"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

// ProductFields is the coerced input for create and update. A nil pointer
// (or nil Gallery) means the field was absent from the request.
type ProductFields struct {
	Name          *string
	Description   *string
	Price         *float64 `validate:"omitempty,gte=0"`
	OriginalPrice *float64 `validate:"omitempty,gte=0"`
	Discount      *int     `validate:"omitempty,gte=0,lte=100"`
	Rating        *float64 `validate:"omitempty,gte=0,lte=5"`
	Reviews       *int     `validate:"omitempty,gte=0"`
	PhotoPath     *string
	Gallery       []string
	Stock         *int `validate:"omitempty,gte=0"`
	Category      *string

	// Clear names optional fields to remove. Only the admin edit form sets
	// it, when an originalPrice or discount box is submitted empty.
	Clear []string
}
