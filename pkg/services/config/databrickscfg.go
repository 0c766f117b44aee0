package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// DatabricksProfile is a resolved .databrickscfg section together with the SQL
// warehouse path the report relations are served from.
type DatabricksProfile struct {
	Config   *config.Config
	HTTPPath string
}

func DefaultDatabricksConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".databrickscfg"
	}
	return filepath.Join(home, ".databrickscfg")
}

// ResolveDatabricksProfile reads the named profile from an ini-formatted
// .databrickscfg file. An http_path set in settings wins over the profile's.
func ResolveDatabricksProfile(settings Databricks) (*DatabricksProfile, error) {
	path := settings.ConfigFile
	if path == "" {
		path = DefaultDatabricksConfigPath()
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	name := settings.Profile
	if name == "" {
		name = ini.DefaultSection
	}
	section, err := cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found in %s", name, path)
	}

	host := section.Key("host").String()
	token := section.Key("token").String()
	if host == "" || token == "" {
		return nil, fmt.Errorf("profile %s must define host and token", name)
	}

	httpPath := settings.HTTPPath
	if httpPath == "" {
		httpPath = section.Key("http_path").String()
	}
	if httpPath == "" {
		return nil, fmt.Errorf("profile %s has no http_path and none is configured", name)
	}

	return &DatabricksProfile{
		Config: &config.Config{
			Profile: name,
			Host:    host,
			Token:   token,
		},
		HTTPPath: httpPath,
	}, nil
}
