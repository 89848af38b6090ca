package config

import "time"

type Pricing struct {
	ServiceURL     string        `env:"PRICE_SERVICE_URL,notEmpty" validate:"url"`
	ValidityWindow time.Duration `env:"PRICE_VALIDITY_WINDOW" envDefault:"720h"`
	MarkupFactor   float64       `env:"PRICE_MARKUP_FACTOR" envDefault:"1.15" validate:"gt=1"`
	ReportEnabled  bool          `env:"PRICE_REPORT_ENABLED" envDefault:"true"`
}
