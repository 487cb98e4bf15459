package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"fooddash"`

	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"order-events"`
	KafkaGroupID string `env:"KAFKA_GROUP_ID" envDefault:"fooddash-notifier"`
	KafkaDLQ     string `env:"KAFKA_DLQ" envDefault:"order-events-dlq"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`

	OrderCacheTTL time.Duration `env:"ORDER_CACHE_TTL" envDefault:"5m"`

	Pricing PricingConfig
}

// PricingConfig holds the fee knobs that the pricing engine applies to every
// order. GST is split evenly into cgst/sgst; igst stays zero (domestic only).
type PricingConfig struct {
	PlatformFeePercent float64       `env:"PLATFORM_FEE_PERCENT" envDefault:"2"`
	PackagingFee       float64       `env:"PACKAGING_FEE" envDefault:"10"`
	GSTPercent         float64       `env:"GST_PERCENT" envDefault:"5"`
	OTPTTL             time.Duration `env:"OTP_TTL" envDefault:"30m"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	return c, nil
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
