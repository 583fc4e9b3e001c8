package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperror"
	"storefront/upload"
	"storefront/utils"
)

type fakeUploader struct {
	data     []byte
	fileName string
	mimeType string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, fileName, mimeType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.data, f.fileName, f.mimeType = data, fileName, mimeType
	return "https://cdn.example.com/bucket/products/1-" + fileName, nil
}

func (f *fakeUploader) Delete(context.Context, string) error { return f.err }

type fakeNotifier struct {
	id  string
	err error
}

func (f fakeNotifier) Notify(context.Context, string, string, string) (string, error) {
	return f.id, f.err
}

func newTestHandler() *Handler {
	return &Handler{
		ErrorHdlr:    utils.NewErrorHandler(),
		ResponseHdlr: NewResponseHandler(),
	}
}

func multipartImage(t *testing.T, fileName, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestUploadImage(t *testing.T) {
	h := newTestHandler()
	uploader := &fakeUploader{}
	h.Uploader = uploader

	body, contentType := multipartImage(t, "lamp.png", "image/png", 1024)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "products/1-lamp.png")
	assert.Len(t, uploader.data, 1024)
	assert.Equal(t, "image/png", uploader.mimeType)
}

func TestUploadImageRejections(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		size        int
		code        string
	}{
		{"wrong type", "notes.txt", "text/plain", 10, apperror.CodeInvalidFileType},
		{"too large", "huge.png", "image/png", upload.MaxFileSize + 1, apperror.CodeFileTooLarge},
		{"wrong type wins over size", "huge.pdf", "application/pdf", upload.MaxFileSize + 1, apperror.CodeInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			uploader := &fakeUploader{}
			h.Uploader = uploader

			body, contentType := multipartImage(t, tt.fileName, tt.contentType, tt.size)
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.UploadImage(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorBody(t, rec).Code)
			assert.Nil(t, uploader.data)
		})
	}
}

func TestUploadImageMissingFile(t *testing.T) {
	h := newTestHandler()
	h.Uploader = &fakeUploader{}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No image file provided", errorBody(t, rec).Error)
}

func TestUploadImageStorageFailure(t *testing.T) {
	h := newTestHandler()
	h.Uploader = &fakeUploader{err: apperror.Gateway("Failed to upload image to cloud storage", "AccessDenied", errors.New("put failed"))}

	body, contentType := multipartImage(t, "lamp.png", "image/png", 16)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "AccessDenied", errorBody(t, rec).Detail)
}

func TestNotify(t *testing.T) {
	tests := []struct {
		name     string
		notifier fakeNotifier
		status   int
		contains string
	}{
		{"sent", fakeNotifier{id: "SM42"}, http.StatusOK, `"messageId":"SM42"`},
		{"missing fields", fakeNotifier{err: apperror.Validation("Missing required fields").WithCode(apperror.CodeMissingFields)}, http.StatusBadRequest, apperror.CodeMissingFields},
		{"unconfigured", fakeNotifier{err: apperror.ServiceUnavailable("SMS service not configured. Please contact administrator.", nil)}, http.StatusServiceUnavailable, "not configured"},
		{"gateway", fakeNotifier{err: apperror.Gateway("Failed to send SMS", "invalid number", errors.New("twilio"))}, http.StatusBadGateway, "invalid number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			h.Notifier = tt.notifier

			req := httptest.NewRequest(http.MethodPost, "/api/notify",
				strings.NewReader(`{"productId":"1","productName":"Lamp","productUrl":"https://shop.example.com/products/1"}`))
			rec := httptest.NewRecorder()
			h.Notify(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestNotifyInvalidBody(t *testing.T) {
	h := newTestHandler()
	h.Notifier = fakeNotifier{id: "unused"}

	req := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Notify(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := errorBody(t, rec)
	assert.Len(t, resp.Errors, 2)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"name":"Lamp","description":"LED","price":"abc"}`))
	rec := httptest.NewRecorder()
	h.CreateProduct(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Price must be a valid number")
}

func TestHealthz(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProductFormRoundTrip(t *testing.T) {
	values := map[string][]string{
		"name":    {"Lamp"},
		"price":   {"12.5"},
		"ignored": {"x"},
	}
	form := formValues(values)
	assert.Equal(t, map[string]string{"name": "Lamp", "price": "12.5"}, form)
}
