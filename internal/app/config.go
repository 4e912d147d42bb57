package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete engine configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	BaseURL     string `usage:"Backend base URL for products and orders" flag:"base-url"`
	AuthURL     string `usage:"Accounts API base URL (defaults to base URL)" flag:"auth-url"`
	APIKey      string `usage:"API key appended to auth requests" flag:"api-key"`
	FilterOwned bool   `default:"false" usage:"Fetch only products owned by the signed-in user" flag:"filter-owned"`
	HTTP        HTTPConfig
}

// HTTPConfig controls the backend HTTP client.
type HTTPConfig struct {
	Timeout time.Duration `default:"15s" usage:"Per-request timeout for backend calls"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required: set SHOP_BASE_URL")
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = cfg.BaseURL
	}

	return &cfg, nil
}
