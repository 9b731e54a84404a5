// Package config binds the engine's options plus the optional
// collaborators' connection settings from environment variables,
// validated with go-playground/validator tags.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level option struct. Backend/URI/AutoCreate/
// FlushOnCommit are the engine's own options; the rest configure the
// optional collaborators (cache, audit sinks).
type Config struct {
	// Backend names the registered dialect/driver pair: "sqlite" or
	// "postgres".
	Backend string `env:"OOSGO_BACKEND" validate:"required,oneof=sqlite postgres"`
	// URI is the backend-specific connection string, passed verbatim
	// to the driver.
	URI string `env:"OOSGO_URI" validate:"required"`
	// AutoCreate, when true, issues CREATE TABLE for every registered
	// prototype (and container join table) at session open.
	AutoCreate bool `env:"OOSGO_AUTO_CREATE"`
	// FlushOnCommit, when true, instructs buffered drivers to flush
	// their write buffer before a commit returns. Committed actions
	// reach the backend either way; this only tightens the timing
	// guarantee for drivers that buffer.
	FlushOnCommit bool `env:"OOSGO_FLUSH_ON_COMMIT"`

	LogLevel string `env:"OOSGO_LOG_LEVEL"`

	RedisAddr string `env:"OOSGO_REDIS_ADDR"`
	RedisTTL  int    `env:"OOSGO_REDIS_TTL_SECONDS"`

	MongoURI      string `env:"OOSGO_MONGO_URI"`
	MongoDatabase string `env:"OOSGO_MONGO_DATABASE" validate:"required_with=MongoURI"`

	RabbitMQURI      string `env:"OOSGO_RABBITMQ_URI"`
	RabbitMQExchange string `env:"OOSGO_RABBITMQ_EXCHANGE" validate:"required_with=RabbitMQURI"`
	RabbitMQKey      string `env:"OOSGO_RABBITMQ_KEY"`
}

// Load builds a Config from the process environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	setFromEnvVars(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setFromEnvVars walks cfg's exported fields by "env" tag, mirroring
// common/os.go's SetConfigFromEnvVars: string/bool/int fields only,
// missing variables leave the zero value in place.
func setFromEnvVars(cfg any) {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		raw, present := os.LookupEnv(tag)
		if !present {
			continue
		}

		fv := v.Field(i)

		switch fv.Kind() {
		case reflect.Bool:
			if b, err := strconv.ParseBool(raw); err == nil {
				fv.SetBool(b)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
				fv.SetInt(n)
			}
		default:
			fv.SetString(raw)
		}
	}
}
