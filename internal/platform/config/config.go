package config

import (
	"fmt"
	"log"
	"strings"

	"fx-payment-processor/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port             string
	IsProduction     bool
	DatabaseURL      string
	EnableDurableLog bool
	RateLimit        string // ulule/limiter format, e.g. "100-M"
	FXRates          string // "FROM:TO=rate" pairs, comma separated
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DURABLE_LOG", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("FX_RATES", "USD:MXN=18.70,MXN:USD=0.053")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		EnableDurableLog: viper.GetBool("ENABLE_DURABLE_LOG"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		FXRates:          viper.GetString("FX_RATES"),
	}

	if cfg.EnableDurableLog && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("ENABLE_DURABLE_LOG is set but PGSQL_URL is empty")
	}
	if !cfg.EnableDurableLog && cfg.DatabaseURL == "" {
		log.Println("Running without durable transaction log. Set PGSQL_URL and ENABLE_DURABLE_LOG to persist the ledger.")
	}

	return cfg, nil
}

// SupportedCurrencies returns the closed set of currencies the processor
// accepts. The set is fixed for the process lifetime.
func SupportedCurrencies() []domain.Currency {
	return []domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
		{CurrencyCode: "MXN", Symbol: "$", Name: "Mexican Peso", Precision: 2},
	}
}

// ParseRates parses the FX_RATES string ("USD:MXN=18.70,MXN:USD=0.053")
// into exchange rates. Validation beyond shape (positivity, known
// currencies, inverse consistency) belongs to the rate service.
func ParseRates(raw string) ([]domain.ExchangeRate, error) {
	var rates []domain.ExchangeRate
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pair, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("malformed rate entry %q, want FROM:TO=rate", entry)
		}
		from, to, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("malformed currency pair %q, want FROM:TO", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("malformed rate value %q: %w", value, err)
		}
		rates = append(rates, domain.ExchangeRate{
			FromCurrencyCode: strings.ToUpper(strings.TrimSpace(from)),
			ToCurrencyCode:   strings.ToUpper(strings.TrimSpace(to)),
			Rate:             rate,
		})
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no exchange rates configured")
	}
	return rates, nil
}
