package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rogpeppe/rjson"
	"github.com/sirupsen/logrus"
)

// Config holds everything needed to run the posts API.
type Config struct {
	Addr      string `json:"addr" validate:"required"`
	Store     string `json:"store" validate:"oneof=memory badger"`
	IDFormat  string `json:"id_format" validate:"oneof=uuid ulid"`
	LogLevel  string `json:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `json:"log_format" validate:"oneof=text json"`
	Metrics   bool   `json:"metrics"`

	// ShutdownTimeout is a duration string such as "10s".
	ShutdownTimeout string `json:"shutdown_timeout" validate:"required"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:            ":3000",
		Store:           "memory",
		IDFormat:        "uuid",
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: "10s",
	}
}

// Validate checks every field holds an accepted value.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := c.GracePeriod(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// GracePeriod parses the shutdown timeout.
func (c *Config) GracePeriod() (time.Duration, error) {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, errors.Wrap(err, "shutdown_timeout")
	}
	if d <= 0 {
		return 0, errors.New("shutdown_timeout must be positive")
	}
	return d, nil
}

// Decode overlays the relaxed JSON read from r onto c. Fields absent from the
// input keep their current values.
func (c *Config) Decode(r io.Reader) error {
	if err := rjson.NewDecoder(r).Decode(c); err != nil {
		return errors.Wrap(err, "could not decode configuration")
	}
	return nil
}

// LoadFile overlays the configuration file at pathname onto c.
func (c *Config) LoadFile(pathname string) error {
	f, err := os.Open(pathname)
	if err != nil {
		return errors.Wrapf(err, "could not open configuration %q", pathname)
	}
	defer f.Close()
	return c.Decode(f)
}

// Parse builds the configuration from defaults, an optional -config file and
// command line flags, in that order of precedence.
func Parse(name string, args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "", "location of configuration file")
	addr := fs.String("addr", cfg.Addr, "address to listen on")
	store := fs.String("store", cfg.Store, "post store: memory or badger")
	idFormat := fs.String("id-format", cfg.IDFormat, "post id format: uuid or ulid")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level")
	logFormat := fs.String("log-format", cfg.LogFormat, "log format: text or json")
	metrics := fs.Bool("metrics", cfg.Metrics, "expose Prometheus metrics on /metrics")
	shutdownTimeout := fs.String("shutdown-timeout", cfg.ShutdownTimeout, "grace period for in-flight requests on shutdown")

	if err := fs.Parse(args); err != nil {
		return cfg, errors.Wrap(err, "could not parse flags")
	}

	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			return cfg, err
		}
	}

	// Only flags given explicitly override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "store":
			cfg.Store = *store
		case "id-format":
			cfg.IDFormat = *idFormat
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "metrics":
			cfg.Metrics = *metrics
		case "shutdown-timeout":
			cfg.ShutdownTimeout = *shutdownTimeout
		}
	})

	return cfg, cfg.Validate()
}

// NewLogger builds the logger described by the configuration.
func (c *Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
