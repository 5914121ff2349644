package config

import "strings"

type App struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// IsProduction reports whether internal error details must be withheld.
func (a App) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}
