package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Settings struct {
	App        App        `mapstructure:"app"`
	Server     Server     `mapstructure:"server"`
	Log        Log        `mapstructure:"log"`
	Datasource Datasource `mapstructure:"datasource"`
	Routing    Routing    `mapstructure:"routing"`
	FarmCache  FarmCache  `mapstructure:"farm_cache"`
}

type App struct {
	ServiceName string `mapstructure:"service_name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Datasource selects the database behind the report relations. An empty
// driver runs the service in mock mode.
type Datasource struct {
	Driver       string     `mapstructure:"driver"`
	DSN          string     `mapstructure:"dsn"`
	MaxOpenConns int        `mapstructure:"max_open_conns"`
	Bootstrap    bool       `mapstructure:"bootstrap"`
	Snowflake    Snowflake  `mapstructure:"snowflake"`
	Databricks   Databricks `mapstructure:"databricks"`
}

type Snowflake struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type Databricks struct {
	ConfigFile string `mapstructure:"config_file"`
	Profile    string `mapstructure:"profile"`
	HTTPPath   string `mapstructure:"http_path"`
}

type Routing struct {
	Priority []string `mapstructure:"priority"`
	Fallback string   `mapstructure:"fallback"`
}

type FarmCache struct {
	Size int `mapstructure:"size"`
}

var DefaultPriority = []string{
	"pendingDeliveries",
	"availableHarvest",
	"harvestPerformance",
	"customerDeliveries",
	"dailyOperations",
	"inventoryAging",
	"allocationEfficiency",
	"summaryStats",
	"tasks",
	"spacer",
	"pest",
	"monitoring",
	"lighting",
	"sensor",
}

const DefaultFallback = "tower"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.service_name", "sproutify-ai-smart-search")
	v.SetDefault("app.version", "3.0.0-modular")
	v.SetDefault("app.environment", "production")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("datasource.driver", "")
	v.SetDefault("datasource.dsn", "")
	v.SetDefault("datasource.max_open_conns", 10)
	v.SetDefault("datasource.bootstrap", false)
	for _, key := range []string{"account", "user", "password", "database", "schema", "warehouse", "role"} {
		v.SetDefault("datasource.snowflake."+key, "")
	}
	v.SetDefault("datasource.databricks.config_file", "")
	v.SetDefault("datasource.databricks.profile", "DEFAULT")
	v.SetDefault("datasource.databricks.http_path", "")

	v.SetDefault("routing.priority", DefaultPriority)
	v.SetDefault("routing.fallback", DefaultFallback)

	v.SetDefault("farm_cache.size", 1024)
}

// Load reads settings from an optional YAML file, then environment variables
// (SERVER_PORT, DATASOURCE_DSN, ...), then defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", s.Server.Port))
	}
	if s.Routing.Fallback == "" {
		errs = append(errs, fmt.Errorf("routing.fallback must be set"))
	}
	if s.FarmCache.Size <= 0 {
		errs = append(errs, fmt.Errorf("farm_cache.size must be positive"))
	}
	return errors.Join(errs...)
}

func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Server.Host, strconv.Itoa(s.Server.Port))
}
