// Package config loads the settings of the signup web UI and the users backend.
// Values are layered, later sources winning: defaults, JSON file, command-line flags,
// environment (a .env file is loaded first when present). The result is validated.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/usersignup/internal/logger"
)

// Config holds every setting of both binaries; each uses the subset it needs.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	BackendURL          string        `env:"BACKEND_URL" json:"backend_url" validate:"url"`
	LogLevel            string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" json:"file_storage_path" validate:"filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN" json:"database_dsn"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" json:"db_connection_timeout"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR" json:"migrations_dir"`
	ConfigFile          string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	BackendURL:          "http://localhost:5000",
	LogLevel:            "info",
	DBFileName:          "",
	DatabaseDSN:         "",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "cmd/usersvc/migrations",
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	defaultRunAddr      string
	args                []string
}

// WithDisableFlagsParsing skips the command-line layer, e.g. in tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithDefaultRunAddr overrides the default listen address of the binary.
func WithDefaultRunAddr(runAddr string) InitOption {
	return func(options *initOptions) {
		options.defaultRunAddr = runAddr
	}
}

// WithArgs parses the given arguments instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// applyDefaults fills every zero field of values from defaults.
func applyDefaults(values *Config, defaults Config) {
	overrideWith(values, defaults, true)
}

// overrideWith copies the non-zero fields of source into values. With onlyEmpty set,
// fields already holding a value are kept.
func overrideWith(values *Config, source Config, onlyEmpty bool) {
	setString := func(target *string, value string) {
		if value != "" && (!onlyEmpty || *target == "") {
			*target = value
		}
	}

	setString(&values.RunAddr, source.RunAddr)
	setString(&values.BackendURL, source.BackendURL)
	setString(&values.LogLevel, source.LogLevel)
	setString(&values.DBFileName, source.DBFileName)
	setString(&values.DatabaseDSN, source.DatabaseDSN)
	setString(&values.MigrationsDir, source.MigrationsDir)
	setString(&values.ConfigFile, source.ConfigFile)

	if source.DBConnectionTimeout != 0 && (!onlyEmpty || values.DBConnectionTimeout == 0) {
		values.DBConnectionTimeout = source.DBConnectionTimeout
	}
}

func loadJSON(fileName string) (Config, error) {
	var fromFile Config

	data, err := os.ReadFile(fileName)
	if err != nil {
		return fromFile, fmt.Errorf("in internal/config/config.go/loadJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fromFile, fmt.Errorf("in internal/config/config.go/loadJSON(): error while `json.Unmarshal()` calling: %w", err)
	}

	return fromFile, nil
}

func parseFlags(args []string) (Config, error) {
	var fromFlags Config

	flagSet := flag.NewFlagSet("usersignup", flag.ContinueOnError)
	flagSet.StringVar(&fromFlags.RunAddr, "a", "", "address and port to run server")
	flagSet.StringVar(&fromFlags.BackendURL, "b", "", "base URL of the users backend")
	flagSet.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&fromFlags.DBFileName, "f", "", "JSON file name with database")
	flagSet.StringVar(&fromFlags.DatabaseDSN, "d", "", "A string with the database connection details")
	flagSet.StringVar(&fromFlags.MigrationsDir, "m", "", "directory with goose migrations")
	flagSet.StringVar(&fromFlags.ConfigFile, "c", "", "JSON configuration file")

	if err := flagSet.Parse(args); err != nil {
		return fromFlags, err
	}

	return fromFlags, nil
}

// New builds the configuration. See the package documentation for the precedence.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		logger.Log.Debugw("unable to load .env file", "error", err)
	}

	defaults := defaultConfig
	if options.defaultRunAddr != "" {
		defaults.RunAddr = options.defaultRunAddr
	}

	var fromFlags Config
	if !options.disableFlagsParsing {
		var err error
		fromFlags, err = parseFlags(options.args)
		if err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	values := &Config{}

	configFile := fromEnv.ConfigFile
	if configFile == "" {
		configFile = fromFlags.ConfigFile
	}
	if configFile != "" {
		fromFile, err := loadJSON(configFile)
		if err != nil {
			return nil, err
		}
		overrideWith(values, fromFile, false)
		values.ConfigFile = configFile
	}

	overrideWith(values, fromFlags, false)
	overrideWith(values, fromEnv, false)
	applyDefaults(values, defaults)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
