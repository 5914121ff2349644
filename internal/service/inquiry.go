package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
)

const whatsAppBaseURL = "https://wa.me/"

// Inquiry is a WhatsApp deep link a shopper opens to ask about a product.
type Inquiry struct {
	URL     string
	Message string
}

type InquiryService interface {
	BuildInquiry(ctx context.Context, id uuid.UUID) (Inquiry, error)
}

type inquiryService struct {
	cfg         config.Inquiry
	productRepo repository.ProductRepository
}

func NewInquiryService(cfg config.Inquiry, productRepo repository.ProductRepository) InquiryService {
	return &inquiryService{
		cfg:         cfg,
		productRepo: productRepo,
	}
}

func (s *inquiryService) BuildInquiry(ctx context.Context, id uuid.UUID) (Inquiry, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return Inquiry{}, notFoundOr(err, "product repository get product")
	}

	return NewInquiry(s.cfg, product), nil
}

// NewInquiry renders the inquiry message for product and wraps it in a
// wa.me link for the configured number.
func NewInquiry(cfg config.Inquiry, product model.Product) Inquiry {
	lines := []string{
		"Hello, I am interested in this product: " + product.Name,
		"Price: $" + decimal.NewFromFloat(product.Price).String(),
	}
	if cfg.StorefrontURL != "" {
		link := fmt.Sprintf("%s/product/%s", strings.TrimRight(cfg.StorefrontURL, "/"), product.ID)
		lines = append(lines, "Link: "+link)
	}
	message := strings.Join(lines, "\n")

	return Inquiry{
		URL:     whatsAppBaseURL + digitsOnly(cfg.WhatsAppNumber) + "?text=" + encodeURIComponent(message),
		Message: message,
	}
}

// uriComponentUnescaper undoes the query escapes that JavaScript's
// encodeURIComponent leaves alone, so links match the storefront's own.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}

// digitsOnly strips formatting such as "+", spaces and dashes, which wa.me
// does not accept.
func digitsOnly(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
