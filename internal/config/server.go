package config

type Server struct {
	HTTPAddress   string `env:"HTTP_ADDRESS" envDefault:":8080"`
	ProbeAddress  string `env:"PROBE_ADDRESS" envDefault:":8091"`
	MetricAddress string `env:"METRIC_ADDRESS" envDefault:":9090"`
}
