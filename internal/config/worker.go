package config

import "time"

type Worker struct {
	TickInterval      time.Duration `env:"WORKER_TICK_INTERVAL" envDefault:"100ms"`
	TelemetryInterval time.Duration `env:"WORKER_TELEMETRY_INTERVAL" envDefault:"500ms"`
	MinProfit         int64         `env:"WORKER_MIN_PROFIT" envDefault:"50"`
	DeliveryDelay     time.Duration `env:"WORKER_DELIVERY_DELAY" envDefault:"5m"`
}
