package config

type Game struct {
	BaseURL  string `env:"GAME_BASE_URL,notEmpty" validate:"url"`
	World    string `env:"GAME_WORLD,notEmpty"`
	Username string `env:"GAME_USERNAME,notEmpty"`
	Password string `env:"GAME_PASSWORD,notEmpty" json:"-"`
	Headless bool   `env:"GAME_HEADLESS" envDefault:"true"`
	Debug    bool   `env:"GAME_DEBUG" envDefault:"false"`
}
