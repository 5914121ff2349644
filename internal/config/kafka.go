package config

import "time"

type Kafka struct {
	Addresses   []string      `env:"KAFKA_ADDRESSES" envDefault:"localhost:9092" envSeparator:","`
	Group       string        `env:"KAFKA_GROUP" envDefault:"catalog"`
	ClientID    string        `env:"KAFKA_CLIENT_ID" envDefault:"storefront-catalog"`
	PingTimeout time.Duration `env:"KAFKA_PING_TIMEOUT" envDefault:"5s"`
}
