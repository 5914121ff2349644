package config

type Inquiry struct {
	WhatsAppNumber string `env:"INQUIRY_WHATSAPP_NUMBER" envDefault:"1234567890"`
	StorefrontURL  string `env:"INQUIRY_STOREFRONT_URL"`
}
