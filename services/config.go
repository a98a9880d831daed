package services

import (
	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/pkg/errors"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/events"
)

type Config struct {
	docstore.Config

	KeyType         string `envconfig:"TIDEPOOL_IDENTITY_KEY_TYPE" default:"string"`
	AutoSaveChanges bool   `envconfig:"TIDEPOOL_IDENTITY_AUTO_SAVE_CHANGES" default:"true"`
	EnsureIndexes   bool   `envconfig:"TIDEPOOL_IDENTITY_ENSURE_INDEXES" default:"true"`
	LogLevel        string `envconfig:"TIDEPOOL_IDENTITY_LOG_LEVEL" default:"info"`

	Events *events.Config `ignored:"true"`
}

// LoadConfig reads the service configuration, including the Kafka settings,
// from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{Events: events.NewConfig()}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "unable to load the identity config")
	}
	if err := cfg.Events.LoadFromEnv(); err != nil {
		return nil, pkgerrors.Wrap(err, "unable to load the events config")
	}
	if _, err := cfg.KeyKind(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) KeyKind() (common.KeyKind, error) {
	return common.ParseKeyKind(c.KeyType)
}
