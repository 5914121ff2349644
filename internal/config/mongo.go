package config

import "time"

// Mongo points at the legacy storefront database the seeder can import from.
type Mongo struct {
	URI        string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/curtain_ecommerce"`
	Database   string        `env:"MONGO_DATABASE" envDefault:"curtain_ecommerce"`
	Collection string        `env:"MONGO_COLLECTION" envDefault:"products"`
	Timeout    time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`
}
