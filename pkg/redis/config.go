package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" yaml:"url"` // ConnectionURL is the URL of the database. It should be in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`            // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s" yaml:"retry_interval"`           // RetryInterval is the interval between retry attempts. It should be in the format "5s" for 5
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" yaml:"connect_timeout"`        // ConnectTimeout is the timeout for connecting to the database. It should be in the format "30s" for 30 seconds.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"piwik:cookie:" yaml:"key_prefix"`        // KeyPrefix is prepended to every cookie key written by CookieStore.
}
