package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library is one IOPAC catalog instance, identified by its base URL.
type Library struct {
	URL string `yaml:"URL"`
}

// Account holds one set of catalog credentials tied to a library.
type Account struct {
	Library    string `yaml:"Bibliothek"`
	CustomerID string `yaml:"Kundennummer"`
	Password   string `yaml:"Passwort"`
}

// Config describes all libraries and accounts to scrape. The YAML keys
// match the config format existing deployments already use.
type Config struct {
	Libraries map[string]Library `yaml:"Bibliotheken"`
	Accounts  map[string]Account `yaml:"Konten"`
}

// Load reads and validates a config file. Both maps are read-only after
// this point.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, account := range c.Accounts {
		if _, ok := c.Libraries[account.Library]; !ok {
			return fmt.Errorf("account %s references missing library %s", name, account.Library)
		}
	}
	return nil
}

// LibraryFor resolves an account's library. Validation at load time
// guarantees the reference exists.
func (c *Config) LibraryFor(a Account) Library {
	library, ok := c.Libraries[a.Library]
	if !ok {
		panic(fmt.Sprintf("unvalidated config: missing library %s", a.Library))
	}
	return library
}
