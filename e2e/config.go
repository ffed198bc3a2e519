package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_DATA_DIR overrides the per-test temp dir for the badger store and
	// search index, useful to inspect state after a failed run.
	DataDir string `envconfig:"E2E_DATA_DIR"`
	// E2E_DEBUG enables debug-level logs during scenarios
	Debug    bool   `envconfig:"E2E_DEBUG" default:"false"`
	OrgID    string `envconfig:"E2E_ORG_ID" default:"acme"`
	UserName string `envconfig:"E2E_USER_NAME" default:"E2E User"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
