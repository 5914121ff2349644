package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
)

type productHandler struct {
	productSvc service.ProductService
	inquirySvc service.InquiryService
}

func newProductHandler(productSvc service.ProductService, inquirySvc service.InquiryService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		inquirySvc: inquirySvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, newProductResponse(product))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(product))
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var params service.CreateProductParams
	if err := decodeJSON(w, r, &params); err != nil {
		return err
	}

	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		return fmt.Errorf("product service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, newProductResponse(product))
}

func (h *productHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	var params service.ReplaceProductParams
	if err := decodeJSON(w, r, &params); err != nil {
		return err
	}

	product, err := h.productSvc.ReplaceProduct(r.Context(), id, params)
	if err != nil {
		return fmt.Errorf("product service replace product: %w", err)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(product))
}

func (h *productHandler) PatchProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	var params service.PatchProductParams
	if err := decodeJSON(w, r, &params); err != nil {
		return err
	}

	product, err := h.productSvc.PatchProduct(r.Context(), id, params)
	if err != nil {
		return fmt.Errorf("product service patch product: %w", err)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(product))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	return writeJSON(w, http.StatusOK, MessageResponse{Message: "Product removed"})
}

func (h *productHandler) GetProductInquiry(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	inquiry, err := h.inquirySvc.BuildInquiry(r.Context(), id)
	if err != nil {
		return fmt.Errorf("inquiry service build inquiry: %w", err)
	}

	return writeJSON(w, http.StatusOK, InquiryResponse{
		URL:     inquiry.URL,
		Message: inquiry.Message,
	})
}

// productIDParam reads the {id} path segment. An id that is not a UUID can
// never match a product, so it is reported as not found.
func productIDParam(r *http.Request) (uuid.UUID, error) {
	var raw string
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.Nil, apperr.ProductNotFoundErr.WrapParent(err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.ProductNotFoundErr.WrapParent(err)
	}

	return id, nil
}
