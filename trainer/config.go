package trainer

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the knobs of the training loop. Environment variables supply
// the defaults; commands override them with flags.
type Config struct {
	MinibatchSize    int    `env:"SEGNMT_MINIBATCH_SIZE" envDefault:"64"`
	Epoch            int    `env:"SEGNMT_EPOCH" envDefault:"20"`
	ExtensionTrigger int    `env:"SEGNMT_EXTENSION_TRIGGER" envDefault:"200"`
	Seed             int64  `env:"SEGNMT_SEED" envDefault:"1"`
	SnapshotDir      string `env:"SEGNMT_SNAPSHOT_DIR" envDefault:"snapshots"`
	MetricsDB        string `env:"SEGNMT_METRICS_DB" envDefault:"metrics.db"`
}

// FromEnv builds a Config from the environment.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "trainer: parse environment")
	}
	return c, nil
}

// Validate rejects configurations the loop cannot run with.
func (c Config) Validate() error {
	if c.MinibatchSize <= 0 {
		return errors.New("trainer: minibatch size must be positive")
	}
	if c.Epoch <= 0 {
		return errors.New("trainer: epoch budget must be positive")
	}
	if c.ExtensionTrigger <= 0 {
		return errors.New("trainer: extension trigger must be positive")
	}
	return nil
}
