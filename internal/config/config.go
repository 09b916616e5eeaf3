package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/playperu/varsonalia/internal/game"
)

type Config struct {
	HTTPAddr        string     `env:"HTTP_ADDR" envDefault:":3000"`
	DataDir         string     `env:"DATA_DIR" envDefault:"data"`
	StoreBackend    string     `env:"STORE_BACKEND" envDefault:"sqlite"`
	UploadsDir      string     `env:"UPLOADS_DIR" envDefault:"uploads"`
	PublicDir       string     `env:"PUBLIC_DIR" envDefault:"public"`
	LogLevel        slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SerializeWrites bool       `env:"SERIALIZE_WRITES" envDefault:"true"`
	UploadMaxBytes  int64      `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	CORSOrigins     []string   `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	BingoTasks      []string   `env:"BINGO_TASKS" envSeparator:","`

	AdminSecret    string `env:"ADMIN_SECRET,notEmpty"`
	Station1Secret string `env:"STATION_1_SECRET,notEmpty"`
	Station2Secret string `env:"STATION_2_SECRET,notEmpty"`
	Station3Secret string `env:"STATION_3_SECRET,notEmpty"`
	Station4Secret string `env:"STATION_4_SECRET,notEmpty"`
	Station5Secret string `env:"STATION_5_SECRET,notEmpty"`
	Station6Secret string `env:"STATION_6_SECRET,notEmpty"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	for _, k := range c.BingoTasks {
		if err := game.TaskID(k).Validate(); err != nil {
			return fmt.Errorf("BINGO_TASKS: %w", err)
		}
	}
	return nil
}

// Credentials returns the station and admin secrets for the game engine.
func (c *Config) Credentials() game.Credentials {
	return game.Credentials{
		Stations: [game.StationCount]string{
			c.Station1Secret,
			c.Station2Secret,
			c.Station3Secret,
			c.Station4Secret,
			c.Station5Secret,
			c.Station6Secret,
		},
		Admin: c.AdminSecret,
	}
}

// TaskCatalog returns the configured bingo task ids, or nil when any
// well-formed id is accepted.
func (c *Config) TaskCatalog() []game.TaskID {
	if len(c.BingoTasks) == 0 {
		return nil
	}
	ids := make([]game.TaskID, len(c.BingoTasks))
	for i, k := range c.BingoTasks {
		ids[i] = game.TaskID(k)
	}
	return ids
}
