package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/repricer/internal/domain"
	"github.com/phenrril/repricer/internal/usecase"
)

type Config struct {
	Env              string
	DefaultFeePct    float64
	DomesticMarket   string
	ShippingDomestic float64
	ShippingOther    float64
	LogFile          string
	OutputDir        string
}

// LoadConfig reads the environment. Call godotenv.Load first to pick up a
// .env file.
func LoadConfig() Config {
	d := domain.DefaultShippingDefaults
	return Config{
		Env:              strings.ToLower(getEnv("APP_ENV", "development")),
		DefaultFeePct:    getEnvFloat("DEFAULT_FEE_PCT", 15),
		DomesticMarket:   getEnv("DOMESTIC_MARKET", d.DomesticMarket),
		ShippingDomestic: getEnvFloat("SHIPPING_DOMESTIC", d.Domestic),
		ShippingOther:    getEnvFloat("SHIPPING_OTHER", d.Other),
		LogFile:          os.Getenv("LOG_FILE"),
		OutputDir:        getEnv("OUTPUT_DIR", "."),
	}
}

func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

func (c Config) Session() usecase.Config {
	return usecase.Config{
		DefaultFeePct: c.DefaultFeePct,
		Shipping: domain.ShippingDefaults{
			DomesticMarket: c.DomesticMarket,
			Domestic:       c.ShippingDomestic,
			Other:          c.ShippingOther,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid number in environment, using default")
		return defaultValue
	}
	return f
}
