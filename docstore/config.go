package docstore

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	MongoURI               string        `envconfig:"TIDEPOOL_IDENTITY_MONGO_URI" default:"mongodb://localhost:27017"`
	Database               string        `envconfig:"TIDEPOOL_IDENTITY_MONGO_DATABASE" default:"identity"`
	Timeout                time.Duration `envconfig:"TIDEPOOL_IDENTITY_MONGO_TIMEOUT" default:"10s"`
	UseTransactions        bool          `envconfig:"TIDEPOOL_IDENTITY_MONGO_TRANSACTIONS" default:"false"`
	IdentityPartsSeparator string        `envconfig:"TIDEPOOL_IDENTITY_PARTS_SEPARATOR" default:"/"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Conventions() Conventions {
	return Conventions{IdentityPartsSeparator: c.IdentityPartsSeparator}
}
