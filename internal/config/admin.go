package config

type Admin struct {
	Email string `env:"ADMIN_EMAIL" envDefault:"admin@curtain.com"`
	// PasswordHash is a bcrypt hash. Admin login always fails when it is empty.
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}
