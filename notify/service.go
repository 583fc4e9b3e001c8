package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/apperror"
	"storefront/config"
)

// Sender relays one text message and returns the gateway message id
type Sender interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

// SendError carries the gateway's error detail
type SendError struct {
	Detail string
	Err    error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Detail
}

func (e *SendError) Unwrap() error { return e.Err }

// Service sends product inquiries to the store operator
type Service struct {
	sender Sender
	from   string
	to     string
}

// NewService creates the notifier. A nil sender means the gateway is not configured.
func NewService(sender Sender, cfg config.SMSConfig) *Service {
	return &Service{sender: sender, from: cfg.FromNumber, to: cfg.InquiryToNo}
}

// Message renders the inquiry text
func Message(productName, productURL string) string {
	return fmt.Sprintf("🛍️ New Product Inquiry!\n\nProduct: %s\n\nView Product:\n%s\n\n📱 Customer wants to order this item!",
		productName, productURL)
}

// Notify sends one inquiry message. Every call sends a new message.
func (s *Service) Notify(ctx context.Context, productID, productName, productURL string) (string, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(productName) == "" || strings.TrimSpace(productURL) == "" {
		return "", apperror.Validation("Missing required fields").WithCode(apperror.CodeMissingFields)
	}
	if s.sender == nil || s.from == "" || s.to == "" {
		zap.S().Error("SMS gateway credentials not configured")
		return "", apperror.ServiceUnavailable("SMS service not configured. Please contact administrator.", nil)
	}

	id, err := s.sender.Send(ctx, s.from, s.to, Message(productName, productURL))
	if err != nil {
		detail := err.Error()
		if sendErr, ok := err.(*SendError); ok {
			detail = sendErr.Detail
		}
		zap.S().Errorw("SMS send failed", "product", productID, "error", err)
		return "", apperror.Gateway("Failed to send SMS", detail, err)
	}

	zap.S().Infow("SMS sent", "product", productID, "sid", id)
	return id, nil
}
