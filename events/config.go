package events

import (
	"github.com/Shopify/sarama"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	EventSource      string         `envconfig:"CLOUD_EVENTS_SOURCE" default:"identity"`
	KafkaBrokers     []string       `envconfig:"KAFKA_BROKERS" required:"false"`
	KafkaTopic       string         `envconfig:"KAFKA_TOPIC" default:"identity"`
	KafkaTopicPrefix string         `envconfig:"KAFKA_TOPIC_PREFIX" default:""`
	KafkaRequireSSL  bool           `envconfig:"KAFKA_REQUIRE_SSL" default:"false"`
	KafkaVersion     string         `envconfig:"KAFKA_VERSION" default:"2.0.0"`
	SaramaConfig     *sarama.Config `ignored:"true"`
}

func NewConfig() *Config {
	cfg := &Config{}
	cfg.SaramaConfig = sarama.NewConfig()
	cfg.SaramaConfig.Producer.Return.Successes = true
	cfg.SaramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	return cfg
}

func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}
	version, err := sarama.ParseKafkaVersion(c.KafkaVersion)
	if err != nil {
		return err
	}
	c.SaramaConfig.Version = version
	if c.KafkaRequireSSL {
		c.SaramaConfig.Net.TLS.Enable = true
	}
	return nil
}

// Enabled reports whether any brokers are configured. Without brokers the
// service runs with a NoopNotifier.
func (c *Config) Enabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) GetPrefixedTopic() string {
	return c.KafkaTopicPrefix + c.KafkaTopic
}
