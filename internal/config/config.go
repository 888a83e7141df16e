package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the tool reads.
const EnvPrefix = "YYWC"

type Config struct {
	Export      string `mapstructure:"export"`
	OutDir      string `mapstructure:"out" validate:"required"`
	ExtractDir  string `mapstructure:"extract_dir"`
	Year        int    `mapstructure:"year" validate:"omitempty,min=1970,max=9999"`
	RoleScope   string `mapstructure:"role_scope" validate:"required"`
	Redact      bool   `mapstructure:"redact"`
	MaxExcerpts int    `mapstructure:"max_excerpts" validate:"min=0"`
	Timezone    string `mapstructure:"timezone" validate:"required"`
	BestEffort  bool   `mapstructure:"best_effort"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile     string `mapstructure:"log_file"`
	Port        int    `mapstructure:"port" validate:"min=1,max=65535"`
	DatabaseURL string `mapstructure:"database_url"`
	NatsURL     string `mapstructure:"nats_url"`
	NatsToken   string `mapstructure:"nats_token"`
}

var defaults = map[string]any{
	"export":       "",
	"out":          "out",
	"extract_dir":  "",
	"year":         0,
	"role_scope":   "user,assistant",
	"redact":       false,
	"max_excerpts": 12,
	"timezone":     "Local",
	"best_effort":  false,
	"log_level":    "info",
	"log_file":     "",
	"port":         8760,
	"database_url": "",
	"nats_url":     "",
	"nats_token":   "",
}

// New returns a viper instance with defaults and environment bindings.
// DATABASE_URL, NATS_URL and NATS_TOKEN are honoured without the prefix.
func New() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"database_url", "nats_url", "nats_token"} {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), strings.ToUpper(key))
	}
	return v
}

// Load reads the optional config file and decodes v into a validated Config.
// Precedence, lowest first: defaults, file, environment, bound flags.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and that the role scope names at least
// one role.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Roles()) == 0 {
		return errors.New("invalid config: role scope is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Roles splits the comma-separated role scope, dropping blanks.
func (c Config) Roles() []string {
	var roles []string
	for _, part := range strings.Split(c.RoleScope, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, part)
		}
	}
	return roles
}

// Location resolves the timezone used for local day and hour buckets.
// "Local" follows the machine's zone; pin an IANA name for reproducible
// output.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// YearLabel is the human-readable scope of the report.
func (c Config) YearLabel() string {
	if c.Year == 0 {
		return "All time"
	}
	return fmt.Sprint(c.Year)
}
