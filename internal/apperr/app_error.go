package apperr

import "github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"

const (
	ValidationErrorCode     = "validationError"
	ProductNotFoundCode     = "PRODUCT_NOT_FOUND"
	InvalidCredentialsCode  = "INVALID_CREDENTIALS"
	ImageRequiredCode       = "IMAGE_REQUIRED"
	ImageTooLargeCode       = "IMAGE_TOO_LARGE"
	UnsupportedImageCode    = "UNSUPPORTED_IMAGE"
	DatabaseUnavailableCode = "DATABASE_UNAVAILABLE"
)

var (
	ValidationErr          = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr     = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	InvalidCredentialsErr  = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid admin email or password")
	ImageRequiredErr       = zerror.NewBadRequest(ImageRequiredCode, "multipart field \"image\" is required")
	ImageTooLargeErr       = zerror.NewBadRequest(ImageTooLargeCode, "image exceeds the upload size limit")
	UnsupportedImageErr    = zerror.NewUnprocessableEntity(UnsupportedImageCode, "uploaded file is not an image")
	DatabaseUnavailableErr = zerror.NewServiceUnavailable(DatabaseUnavailableCode, "database is unavailable")
)
