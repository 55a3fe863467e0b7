package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/taischeck/internal/transport"
	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/membership"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inputs and outputs
	ResponsesDir   string `validate:"required"`
	TenantArtifact string `validate:"required"`
	Codelist       string
	CodelistDir    string `validate:"required"`
	CodelistSheet  string
	OutputDir      string
	RawDir         string `validate:"required"`
	PayloadDir     string `validate:"required"`
	GlobalLabel    string `validate:"required"`
	Provenance     bool

	// Capture endpoint
	APIBaseURL  string        `validate:"omitempty,url"`
	APIEndpoint string
	AuthToken   string
	AuthHeader  string
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Logging configuration. LogLevel is the --log-level flag; EnvLogLevel
	// is LOG_LEVEL and ranks below -v/-q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (the given path, else .taischeck.yaml in $HOME or .)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// .env files first, so viper's env lookups see them
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", fmt.Sprintf("read %s", configFile), err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ResponsesDir:   v.GetString("responses_dir"),
		TenantArtifact: v.GetString("tenant_artifact"),
		Codelist:       v.GetString("codelist"),
		CodelistDir:    v.GetString("codelist_dir"),
		CodelistSheet:  v.GetString("codelist_sheet"),
		OutputDir:      v.GetString("output_dir"),
		RawDir:         v.GetString("raw_dir"),
		PayloadDir:     v.GetString("payload_dir"),
		GlobalLabel:    v.GetString("global_label"),
		Provenance:     v.GetBool("provenance"),

		APIBaseURL:  v.GetString("api_base_url"),
		APIEndpoint: v.GetString("api_endpoint"),
		AuthToken:   v.GetString("auth_token"),
		AuthHeader:  v.GetString("auth_header"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("responses_dir", constants.DefaultResponsesDir)
	v.SetDefault("tenant_artifact", constants.DefaultTenantArtifact)
	v.SetDefault("codelist_dir", ".")
	v.SetDefault("output_dir", constants.DefaultOutputDir)
	v.SetDefault("raw_dir", constants.DefaultRawDir)
	v.SetDefault("payload_dir", constants.DefaultPayloadDir)
	v.SetDefault("global_label", membership.DefaultGlobalLabel)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// APIURL joins the capture endpoint onto the base url. It is empty when no
// base url is configured.
func (c *Config) APIURL() string {
	if c.APIBaseURL == "" {
		return ""
	}
	return transport.JoinURL(c.APIBaseURL, c.APIEndpoint)
}

var validate = validator.New()

// Validate checks the configuration, reporting the first failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewConfigError("config",
			fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()),
			errors.NewValidationError(fe.Field(), fe.Value(), fe.Tag()))
	}
	return errors.NewConfigError("config", "validation failed", err)
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set are kept; .env is read before .env.local.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
