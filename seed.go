package main

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/config"
	"storefront/database"
	"storefront/models"
	"storefront/repository"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

var sampleProducts = []models.Product{
	{
		Name:          "Wireless Headphones",
		Description:   "Over-ear headphones with active noise cancelling and 30 hour battery life.",
		Price:         89.99,
		OriginalPrice: ptrFloat(129.99),
		Discount:      ptrInt(31),
		Rating:        4.6,
		Reviews:       212,
		PhotoPath:     "🎧",
		Stock:         25,
		Category:      "Audio",
	},
	{
		Name:        "Ceramic Coffee Mug",
		Description: "Hand glazed 350ml mug, dishwasher safe.",
		Price:       14.5,
		Rating:      4.8,
		Reviews:     97,
		PhotoPath:   "☕",
		Stock:       120,
		Category:    "Kitchen",
	},
	{
		Name:          "Canvas Backpack",
		Description:   "Water resistant canvas backpack with a padded laptop sleeve.",
		Price:         49,
		OriginalPrice: ptrFloat(65),
		Discount:      ptrInt(25),
		Rating:        4.3,
		Reviews:       58,
		PhotoPath:     "🎒",
		Stock:         40,
		Category:      "Bags",
	},
	{
		Name:        "Desk Plant",
		Description: "Low maintenance succulent in a concrete pot.",
		Price:       19.99,
		Rating:      4.5,
		Reviews:     33,
		PhotoPath:   "🪴",
		Stock:       60,
		Category:    "Home",
	},
}

// seed replaces the catalog with sample products and upserts the admin account
func seed(cfg *config.Config) error {
	email := strings.TrimSpace(cfg.Auth.AdminEmail)
	if email == "" || cfg.Auth.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required to seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	products := repository.NewProductRepository(db)
	if err := products.DeleteAll(ctx); err != nil {
		return err
	}
	if err := products.InsertMany(ctx, sampleProducts); err != nil {
		return err
	}

	hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    strings.ToLower(email),
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := repository.NewUserRepository(db).Upsert(ctx, admin); err != nil {
		return err
	}

	zap.S().Infow("Seed complete", "products", len(sampleProducts), "admin", admin.Email)
	return nil
}
