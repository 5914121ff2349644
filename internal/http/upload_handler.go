package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
)

const imageFormField = "image"

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

type uploadHandler struct {
	uploadSvc service.UploadService
	maxSize   int64
}

func newUploadHandler(uploadSvc service.UploadService, maxSize int64) *uploadHandler {
	return &uploadHandler{
		uploadSvc: uploadSvc,
		maxSize:   maxSize,
	}
}

func (h *uploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) error {
	if h.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperr.ImageTooLargeErr.WrapParent(err)
		}
		return apperr.ImageRequiredErr.WrapParent(err)
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		return apperr.ImageRequiredErr.WrapParent(err)
	}
	defer file.Close()

	path, err := h.uploadSvc.UploadImage(r.Context(), service.UploadImageParams{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		return fmt.Errorf("upload service upload image: %w", err)
	}

	return writeJSON(w, http.StatusOK, path)
}
