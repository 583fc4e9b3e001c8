package models

// NotifyRequest is the storefront "contact seller" payload
type NotifyRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	ProductURL  string `json:"productUrl"`
}

// NotifyResponse is returned once the gateway accepted the message
type NotifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// UploadResponse is returned after a successful image upload
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}
