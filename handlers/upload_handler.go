package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"

	"storefront/apperror"
	"storefront/models"
	"storefront/upload"
)

const (
	// Bodies up to this size are parsed so oversize images still get a
	// type check before the size check
	maxUploadBody   = 2*upload.MaxFileSize + 1<<20
	multipartMemory = 8 << 20
)

// readImage parses the multipart body and returns the validated image, if any
func readImage(w http.ResponseWriter, r *http.Request) (data []byte, header *multipart.FileHeader, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			if err := r.ParseForm(); err != nil {
				return nil, nil, apperror.Validation("Invalid form submission")
			}
			return nil, nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, apperror.Validation("File size too large. Maximum size is 5MB.").WithCode(apperror.CodeFileTooLarge)
		}
		return nil, nil, apperror.Validation("Invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperror.Validation("Invalid image field")
	}
	defer file.Close()

	if err := upload.Validate(header.Header.Get("Content-Type"), header.Size); err != nil {
		return nil, nil, err
	}
	data, err = io.ReadAll(file)
	if err != nil {
		return nil, nil, apperror.Internal("Failed to read upload", err)
	}
	return data, header, nil
}

// UploadImage stores the multipart "image" field and returns its public URL
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	data, header, err := readImage(w, r)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	if header == nil {
		h.ErrorHdlr.HandleBadRequest(w, "No image file provided")
		return
	}

	url, err := h.Uploader.Upload(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, models.UploadResponse{
		Success: true,
		URL:     url,
		Message: "Image uploaded successfully",
	})
}

// DeleteImage removes a previously uploaded image by URL
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		h.ErrorHdlr.HandleBadRequest(w, "url is required")
		return
	}
	if err := h.Uploader.Delete(r.Context(), url); err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, map[string]bool{"success": true})
}
