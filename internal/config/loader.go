package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load fills a Config from the environment, using each field's `default`
// tag when its variable is unset, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := fill(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// fill walks the sections of v and sets every field carrying an `env` tag.
func fill(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := fill(fv); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			continue
		}
		if err := parseInto(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// parseInto converts raw to the kind of field and stores it.
func parseInto(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	problem := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !oneOf(c.Check.UnexpectedColumn, "cell", "fatal") {
		problem("TSVCHECK_UNEXPECTED_COLUMN (%q) must be one of: cell, fatal", c.Check.UnexpectedColumn)
	}
	if c.Check.MaxFailures < 0 {
		problem("TSVCHECK_MAX_FAILURES must be non-negative")
	}

	srv := c.Server
	if srv.Port <= 0 || srv.Port > 65535 {
		problem("SERVER_PORT (%d) must be 1-65535", srv.Port)
	}
	if srv.ReadTimeout < 0 {
		problem("SERVER_READ_TIMEOUT must be non-negative")
	}
	if srv.ShutdownTimeout <= 0 {
		problem("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if srv.MaxFileSize <= 0 {
		problem("SERVER_MAX_FILE_SIZE must be positive")
	}
	if srv.MaxConcurrent <= 0 {
		problem("SERVER_MAX_CONCURRENT must be positive")
	}
	if srv.MaxWaitTime <= 0 {
		problem("SERVER_MAX_WAIT_TIME must be positive")
	}
	if srv.RateLimit < 0 {
		problem("SERVER_RATE_LIMIT must be non-negative")
	}

	if !oneOf(c.Logging.Level, "debug", "info", "warn", "error") {
		problem("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if !oneOf(c.Logging.Format, "text", "json") {
		problem("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	return nil
}

// String summarizes the config for a startup log line. API keys are
// counted, never printed.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Check: {Rules: %q, UnexpectedColumn: %q, Flexible: %v, StrictQuotes: %v, MaxFailures: %d}, "+
		"Server: {Addr: %q, MaxFileSize: %d, MaxConcurrent: %d, RateLimit: %d, TrustedProxies: %d, APIKeys: %d}, "+
		"Logging: {Level: %q, Format: %q}}",
		c.Check.RulesPath, c.Check.UnexpectedColumn, c.Check.Flexible, c.Check.StrictQuotes, c.Check.MaxFailures,
		c.Server.Addr(), c.Server.MaxFileSize, c.Server.MaxConcurrent, c.Server.RateLimit,
		len(c.Server.TrustedProxies), len(c.Server.APIKeys),
		c.Logging.Level, c.Logging.Format)
}
