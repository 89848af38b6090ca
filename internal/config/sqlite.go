package config

type Sqlite struct {
	Path string `env:"SQLITE_PATH" envDefault:"data/prices.db"`
}
