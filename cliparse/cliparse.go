package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/danielhkuo/election-results/models"
	"github.com/danielhkuo/election-results/parties"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults
const (
	DefaultPort            = 5000
	DefaultDatabaseType    = "sqlite"
	DefaultSQLiteURL       = "file:election.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	DefaultHouseSize       = 400
	DefaultRefreshInterval = 30 * time.Second
	DefaultAssistantModel  = "gemini-2.0-flash"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// DefaultProvinces lists the nine provinces in display order.
var DefaultProvinces = []string{
	"Eastern Cape",
	"Free State",
	"Gauteng",
	"KwaZulu-Natal",
	"Limpopo",
	"Mpumalanga",
	"Northern Cape",
	"North West",
	"Western Cape",
}

// Categories names the ballot categories each report reads.
type Categories struct {
	Seats      string `koanf:"seats"`
	Provincial string `koanf:"provincial"`
	Regional   string `koanf:"regional"`
}

// All returns the distinct configured categories.
func (c Categories) All() []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range []string{c.Seats, c.Provincial, c.Regional} {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Valid reports whether category is one of the configured categories.
func (c Categories) Valid(category string) bool {
	for _, name := range c.All() {
		if name == category {
			return true
		}
	}
	return false
}

type AssistantConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type Config struct {
	Port            int             `koanf:"port"`
	DatabaseURL     string          `koanf:"database_url"`
	DatabaseType    string          `koanf:"database_type"`
	HouseSize       int             `koanf:"house_size"`
	Categories      Categories      `koanf:"categories"`
	Provinces       []string        `koanf:"provinces"`
	RefreshInterval time.Duration   `koanf:"refresh_interval"`
	Parties         []parties.Party `koanf:"parties"`
	Assistant       AssistantConfig `koanf:"assistant"`
	LogLevel        string          `koanf:"log_level"`
	LogFormat       string          `koanf:"log_format"`
	SeedVoters      int             `koanf:"seed_voters"`
}

// ParseFlags builds the configuration. Precedence, low to high: defaults,
// YAML file (-c or ELECTION_CONFIG), ELECTION_* env vars, plain env vars
// (PORT, DATABASE_URL, ...), CLI flags. A .env file in the working directory
// is loaded into the environment first without overriding existing values.
func ParseFlags(args []string) (Config, error) {
	var flags Config
	var configPath string

	fset := flag.NewFlagSet("election-results", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fset.IntVar(&flags.Port, "p", 0, "Server port")
	fset.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fset.StringVar(&configPath, "c", "", "YAML config file")

	// Election settings
	fset.IntVar(&flags.HouseSize, "house-size", 0, "Number of seats in the house")
	fset.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fset.IntVar(&flags.SeedVoters, "seed", 0, "Insert this many demo voters at startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&flags.Assistant.APIKey, "gemini-key", "", "Gemini API key (prefer env)")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := loadLayers(configPath)
	if err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyFlags(&cfg, flags)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadLayers reads the YAML file and ELECTION_ env vars with koanf.
// Nested keys use a double underscore: ELECTION_ASSISTANT__MODEL.
func loadLayers(configPath string) (Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv("ELECTION_CONFIG")
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("ELECTION_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ELECTION_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Fall back to plain environment variables
func applyEnv(cfg *Config) error {
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%w: invalid PORT env variable", ErrInvalidConfig)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		cfg.DatabaseType = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Assistant.APIKey = v
	}

	// Discrete DB_* settings describe a Postgres server
	if cfg.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		cfg.DatabaseURL = postgresURL(
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
		)
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	return nil
}

func postgresURL(host, port, user, password, name string) string {
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

// CLI flags override everything else
func applyFlags(cfg *Config, flags Config) {
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	if flags.DatabaseURL != "" {
		cfg.DatabaseURL = flags.DatabaseURL
	}
	if flags.DatabaseType != "" {
		cfg.DatabaseType = flags.DatabaseType
	}
	if flags.HouseSize != 0 {
		cfg.HouseSize = flags.HouseSize
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.SeedVoters != 0 {
		cfg.SeedVoters = flags.SeedVoters
	}
	if flags.Assistant.APIKey != "" {
		cfg.Assistant.APIKey = flags.Assistant.APIKey
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = DefaultDatabaseType
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType == DefaultDatabaseType {
		cfg.DatabaseURL = DefaultSQLiteURL
	}
	if cfg.HouseSize == 0 {
		cfg.HouseSize = DefaultHouseSize
	}
	if cfg.Categories.Seats == "" {
		cfg.Categories.Seats = models.CategoryNational
	}
	if cfg.Categories.Provincial == "" {
		cfg.Categories.Provincial = models.CategoryProvincial
	}
	if cfg.Categories.Regional == "" {
		cfg.Categories.Regional = models.CategoryRegional
	}
	if len(cfg.Provinces) == 0 {
		cfg.Provinces = append([]string(nil), DefaultProvinces...)
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = DefaultAssistantModel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

// Validate checks the ranges of the final configuration.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("%w: database type must be sqlite or postgres, got %q", ErrInvalidConfig, c.DatabaseType)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: database URL required (use -d or DATABASE_URL env)", ErrInvalidConfig)
	}
	if c.HouseSize <= 0 {
		return fmt.Errorf("%w: house size must be positive, got %d", ErrInvalidConfig, c.HouseSize)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("%w: refresh interval must be at least 1s, got %s", ErrInvalidConfig, c.RefreshInterval)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.SeedVoters < 0 {
		return fmt.Errorf("%w: seed voters must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
