package config

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Environment variables read after the project's .env is loaded
const (
	EnvResultsDSN = "MSPEC_RESULTS_DSN"
	EnvDBHost     = "MSPEC_DB_HOST"
	EnvDBPort     = "MSPEC_DB_PORT"
	EnvDBUser     = "MSPEC_DB_USER"
	EnvDBPassword = "MSPEC_DB_PASSWORD"
	EnvDBName     = "MSPEC_DB_NAME"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath     string
	SpecPath        string
	AssemblyPattern string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Shell       string
	SpecTimeout time.Duration

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	SpecPath      string
	Namespace     string
	Member        string
	SpecTimeout   time.Duration
	Progress      bool
	ShowTraces    bool
	PartialReport bool
	ShowSpecs     bool
	MetricsFile   string
	OpenFailures  bool
	Verbose       bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:     DefaultProjectPath,
		SpecPath:        DefaultSpecPath,
		AssemblyPattern: DefaultAssemblyPattern,
		OutputJSONFile:  DefaultOutputJSONFile,
		OutputJSONDir:   DefaultOutputJSONDir,
		Shell:           DefaultShell,
		SpecTimeout:     DefaultSpecTimeout,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// ApplyFlags stores the command flags and applies their overrides
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	// Apply flag overrides
	if flags.SpecTimeout > 0 {
		c.SpecTimeout = flags.SpecTimeout
	}
}

// LoadEnv loads the project's .env file into the process environment.
// A missing file is not an error; variables already set are kept.
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if _, err := os.Stat(envPath); err != nil {
		return nil
	}
	return godotenv.Load(envPath)
}

// GetSpecPath returns the folder where assembly discovery starts, using the flag if provided
func (c *Config) GetSpecPath() string {
	if c.Flags.SpecPath != "" {
		// Relative flag paths are resolved against the project path
		if filepath.IsAbs(c.Flags.SpecPath) {
			return c.Flags.SpecPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.SpecPath)
	}

	return filepath.Join(c.ProjectPath, c.SpecPath)
}

// GetOutputPath returns the absolute path of the JSON file holding the last run,
// so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetResultsDSN returns the MySQL DSN for run history, or "" when none is configured.
// MSPEC_RESULTS_DSN wins; otherwise the DSN is built from the MSPEC_DB_* variables
// as long as a database name is set.
func (c *Config) GetResultsDSN() string {
	if dsn := os.Getenv(EnvResultsDSN); dsn != "" {
		return dsn
	}

	dbName := os.Getenv(EnvDBName)
	if dbName == "" {
		return ""
	}

	host := os.Getenv(EnvDBHost)
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv(EnvDBPort)
	if port == "" {
		port = DefaultDBPort
	}
	user := os.Getenv(EnvDBUser)
	if user == "" {
		user = "root"
	}

	dsn := mysql.NewConfig()
	dsn.User = user
	dsn.Passwd = os.Getenv(EnvDBPassword)
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(host, port)
	dsn.DBName = dbName
	dsn.ParseTime = true
	return dsn.FormatDSN()
}
