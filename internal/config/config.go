// Package config loads and validates the connector's HCL configuration.
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// defaultSeparatorRegex splits documentum.src when the operator does not set
// a separator.
const defaultSeparatorRegex = ","

// Config is the root configuration.
type Config struct {
	Documentum *Documentum `hcl:"documentum,block"`
	Server     *Server     `hcl:"server,block"`
	Indexer    *Indexer    `hcl:"indexer,block"`
}

// Documentum holds the target repository settings.
type Documentum struct {
	// Username authenticates against the docbase.
	Username string `hcl:"username,optional"`

	// Password authenticates against the docbase. Never logged.
	Password string `hcl:"password,optional"`

	// DocbaseName is the target repository name.
	DocbaseName string `hcl:"docbase_name,optional"`

	// Src is the delimited list of start paths to enumerate.
	Src string `hcl:"src,optional"`

	// SeparatorRegex splits Src. A pointer so an explicitly empty value
	// (which disables splitting) is distinguishable from unset (default ",").
	SeparatorRegex *string `hcl:"separator_regex,optional"`

	// ServerURL is the Documentum REST Services endpoint. Validated and
	// probed at startup.
	ServerURL string `hcl:"server_url,optional"`

	// DisplayURL is the operator-facing content URL, diagnostics only.
	DisplayURL string `hcl:"display_url,optional"`
}

// Server holds the HTTP hosting settings.
type Server struct {
	ListenAddr string `hcl:"listen_addr,optional"`
}

// Indexer holds the identifier sink settings.
type Indexer struct {
	Brokers []string `hcl:"brokers,optional"`
	Topic   string   `hcl:"topic,optional"`
}

// Load reads and decodes an HCL configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// InvalidConfigurationError reports a missing required setting. Startup
// fails on the first violation found so the operator-facing message is
// deterministic.
type InvalidConfigurationError struct {
	// Key is the fully qualified configuration key, e.g.
	// "documentum.docbaseName".
	Key string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}

// Validate checks the required settings in a fixed order: username,
// password, docbaseName, src. The first missing one determines the error.
func (c *Config) Validate() error {
	d := c.Documentum
	if d == nil {
		d = &Documentum{}
	}

	checks := []struct {
		key   string
		value string
	}{
		{"documentum.username", d.Username},
		{"documentum.password", d.Password},
		{"documentum.docbaseName", d.DocbaseName},
		{"documentum.src", d.Src},
	}
	for _, check := range checks {
		if err := validation.Validate(check.value, validation.Required); err != nil {
			return &InvalidConfigurationError{Key: check.key}
		}
	}
	return nil
}

// Separator returns the configured separator regex, defaulting to ",". An
// explicitly empty value is preserved: it disables splitting entirely.
func (d *Documentum) Separator() string {
	if d.SeparatorRegex == nil {
		return defaultSeparatorRegex
	}
	return *d.SeparatorRegex
}

// ListenAddr returns the HTTP listen address.
// Environment variable first, then config, then default.
func (c *Config) ListenAddr() string {
	if addr := os.Getenv("DCTM_LISTEN_ADDR"); addr != "" {
		return addr
	}
	if c.Server != nil && c.Server.ListenAddr != "" {
		return c.Server.ListenAddr
	}
	return ":8000"
}

// Brokers returns the identifier sink broker addresses, or nil when no sink
// brokers are configured. Environment variable first, then config.
func (c *Config) Brokers() []string {
	if brokers := os.Getenv("REDPANDA_BROKERS"); brokers != "" {
		return []string{brokers}
	}
	if c.Indexer != nil && len(c.Indexer.Brokers) > 0 {
		return c.Indexer.Brokers
	}
	return nil
}

// Topic returns the identifier topic name.
// Environment variable first, then config, then default.
func (c *Config) Topic() string {
	if topic := os.Getenv("DOCUMENT_ID_TOPIC"); topic != "" {
		return topic
	}
	if c.Indexer != nil && c.Indexer.Topic != "" {
		return c.Indexer.Topic
	}
	return "dctm.document-ids"
}
