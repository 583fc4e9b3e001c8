package handlers

import (
	"context"
	"html/template"

	"storefront/auth"
	"storefront/models"
	"storefront/utils"
)

// CatalogService is the product CRUD the handlers call
type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, fields models.ProductFields) (*models.Product, error)
	Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type SearchService interface {
	Search(ctx context.Context, query string) ([]models.Product, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (string, error)
	Delete(ctx context.Context, url string) error
}

type InquiryNotifier interface {
	Notify(ctx context.Context, productID, productName, productURL string) (string, error)
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, *auth.Session, error)
}

// Handler struct contains the services and renderers every route uses
type Handler struct {
	Catalog  CatalogService
	Search   SearchService
	Uploader ImageUploader
	Notifier InquiryNotifier
	Auth     Authenticator

	Pages         map[string]*template.Template
	SecureCookies bool

	ErrorHdlr    *utils.ErrorHandler
	ResponseHdlr *ResponseHandler
}
