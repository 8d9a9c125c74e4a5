package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "SH"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"./configs/.env",
	"../configs/.env",
}

// envBindings maps config keys to environment variables with names other than
// the automatic SH_<SECTION>_<KEY> form
var envBindings = map[string]string{
	"database.host":     "SH_DB_HOST",
	"database.port":     "SH_DB_PORT",
	"database.username": "SH_DB_USERNAME",
	"database.password": "SH_DB_PASSWORD",
	"database.database": "SH_DB_NAME",
	"database.sslMode":  "SH_DB_SSL_MODE",
	"redis.addr":        "SH_REDIS_ADDR",
	"redis.password":    "SH_REDIS_PASSWORD",
}

// RegisterFlags adds the command-line flags understood by LoadConfig
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("env", "", "configuration profile (development, test, production); overrides SH_ENV")
	fs.String("config-dir", "", "directory containing <env>.yaml")
	fs.Int("port", 0, "HTTP port; overrides server.port")
	fs.String("store", "", "seat store driver (postgres or memory); overrides store.driver")
}

// LoadConfig loads configuration from the profile file, .env, the environment and flags.
// Precedence, highest first: flags, environment, config file, defaults.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not load .env file:", err)
	}

	env := getEnvironment(fs)

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	if dir := flagString(fs, "config-dir"); dir != "" {
		v.AddConfigPath(dir)
	}
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: no %s.yaml found, using defaults and environment\n", env)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envName := range envBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("bind %s: %w", envName, err)
		}
	}

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	var config Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		rawDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&config, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Seed.SeatIDs = splitList(v.GetStringSlice("seed.seatIds"))

	config.Environment = env
	processDurations(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for key, name := range map[string]string{"server.port": "port", "store.driver": "store"} {
		flag := fs.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// rawDurationHook keeps unit-less numbers from the environment as raw counts;
// processDurations scales them afterwards
func rawDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != durationType {
			return data, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(data.(string)), 10, 64)
		if err != nil {
			return data, nil
		}
		return time.Duration(n), nil
	}
}

// splitList accepts both YAML lists and comma separated env values
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadDotEnvFile loads the first .env file found; existing variables win
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return godotenv.Load(path)
	}
	return nil
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 10)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "seat_hold")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 5)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.logLevel", "warn")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("booking.holdDurationSeconds", 600)
	v.SetDefault("booking.sweepIntervalSeconds", 60)
	v.SetDefault("booking.sweepTimeoutSeconds", 10)

	v.SetDefault("store.driver", StoreDriverPostgres)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.seatMapTTLSeconds", 5)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("seed.concertId", "")
	v.SetDefault("seed.seatIds", []string{})
}

// getEnvironment resolves the profile from --env, then SH_ENV, then development
func getEnvironment(fs *pflag.FlagSet) string {
	env := flagString(fs, "env")
	if env == "" {
		env = os.Getenv(EnvPrefix + "_ENV")
	}
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

func flagString(fs *pflag.FlagSet, name string) string {
	if fs == nil {
		return ""
	}
	value, err := fs.GetString(name)
	if err != nil {
		return ""
	}
	return value
}

// processDurations converts raw numeric settings into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout *= time.Second
	config.Server.WriteTimeout *= time.Second
	config.Server.IdleTimeout *= time.Second
	config.Server.ReadHeaderTimeout *= time.Second
	config.Server.ShutdownTimeout *= time.Second

	config.Database.ConnMaxLifetime *= time.Minute
	config.Database.ConnMaxIdleTime *= time.Minute
	config.Database.QueryTimeout *= time.Second
	config.Database.RetryDelay *= time.Second

	config.Booking.HoldDuration *= time.Second
	config.Booking.SweepInterval *= time.Second
	config.Booking.SweepTimeout *= time.Second

	config.Redis.SeatMapTTL *= time.Second
}
