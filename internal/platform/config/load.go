package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"

	// FunctionsStorageEnv is the storage connection setting of an Azure
	// Functions host. When set it supplies store.aztable.connection_string
	// unless an APP_ variable overrides it.
	FunctionsStorageEnv = "AzureWebJobsStorage"

	aztableConnectionKey = "store.aztable.connection_string"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir reads base.yaml and the profile file from dir instead of
// ./configs.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// layer is one configuration source, applied in order over the previous.
type layer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// Load builds the configuration for profile from these layers, later ones
// winning:
//
//  1. built-in defaults
//  2. {configDir}/base.yaml
//  3. {configDir}/{profile}.yaml
//  4. the AzureWebJobsStorage connection string, when set
//  5. APP_ environment variables
//
// Env names resolve against the known keys, so underscores inside a key
// survive:
//
//	APP_SERVER_HANDLER_TIMEOUT              -> server.handler_timeout
//	APP_STORE_TABLE_NAME                    -> store.table_name
//	APP_STORE_AZTABLE_CONNECTION_STRING     -> store.aztable.connection_string
//	APP_CLIENT_CIRCUIT_BREAKER_MAX_FAILURES -> client.circuit_breaker.max_failures
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	layers := []layer{
		{name: "defaults", provider: confmap.Provider(defaults(), ".")},
		{name: "base config", provider: file.Provider(filepath.Join(o.configDir, "base.yaml")), parser: yaml.Parser()},
		{name: "profile config", provider: file.Provider(filepath.Join(o.configDir, profile+".yaml")), parser: yaml.Parser()},
	}
	if cs := os.Getenv(FunctionsStorageEnv); cs != "" {
		layers = append(layers, layer{
			name:     FunctionsStorageEnv,
			provider: confmap.Provider(map[string]any{aztableConnectionKey: cs}, "."),
		})
	}

	for _, l := range layers {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", l.name, err)
		}
	}

	// Every key exists by now, since defaults lists them all.
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKeyResolver(k.Keys()),
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// validateProfile rejects empty names and names that would escape the
// config directory.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// envKeyResolver maps APP_ variable names onto the known dotted keys. Names
// matching no key fall back to treating every underscore as a separator.
func envKeyResolver(keys []string) func(string, string) (string, any) {
	known := make(map[string]string, len(keys))
	for _, key := range keys {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}
	return func(name, value string) (string, any) {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := known[name]; ok {
			return key, value
		}
		return strings.ReplaceAll(name, "_", "."), value
	}
}
