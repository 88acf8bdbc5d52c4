// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON config
// file, a .env file and environment variables.
//
// Precedence, lowest first: defaults, flags, JSON file, environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port" env:"SERVER_ADDRESS"`

	// Config is the path to the Config file.
	Config string `json:"-" env:"CONFIG"`

	// LogLevel is the minimum zap level that is written.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// TLSCert and TLSKey are the server certificate and key.
	TLSCert string `json:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" env:"TLS_KEY"`

	// CACert verifies client certificates; together with CAKey it signs
	// the identity certificates issued at registration.
	CACert string `json:"ca_cert" env:"TLS_CA"`
	CAKey  string `json:"ca_key" env:"CA_KEY"`

	// GeneratorMode is "lcg" (clock-seeded, reproducible) or "secure" (crypto/rand).
	GeneratorMode string `json:"generator_mode" env:"GENERATOR_MODE"`

	// MaxGenerateLength caps the length accepted by the generate endpoint.
	MaxGenerateLength uint64 `json:"max_generate_length" env:"MAX_GENERATE_LENGTH"`

	// RateLimitRPS and RateLimitBurst bound generate requests per caller.
	RateLimitRPS   float64 `json:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `json:"rate_limit_burst" env:"RATE_LIMIT_BURST"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"-" env:"SHUTDOWN_TIMEOUT"`
}

// Parse loads a .env file if present, then parses the command-line flags,
// config file and environment variables. It exits the process on error.
func Parse() *Options {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("error while reading .env file: %v", err)
	}

	options, err := parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("error while parsing configuration: %v", err)
	}
	return options
}

func parse(fset *flag.FlagSet, args []string) (*Options, error) {
	options := &Options{}

	fset.StringVar(&options.Port, "a", "localhost:8443", "run on ip:port server")
	fset.StringVar(&options.Config, "config", "config.json", "path to config file")
	fset.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	fset.StringVar(&options.LogLevel, "l", "info", "log level")
	fset.StringVar(&options.TLSCert, "tls-cert", "certs/server.crt", "server TLS certificate")
	fset.StringVar(&options.TLSKey, "tls-key", "certs/server.key", "server TLS key")
	fset.StringVar(&options.CACert, "ca-cert", "certs/ca.crt", "CA certificate")
	fset.StringVar(&options.CAKey, "ca-key", "certs/ca.key", "CA private key")
	fset.StringVar(&options.GeneratorMode, "g", "lcg", "password generator: lcg or secure")
	fset.Uint64Var(&options.MaxGenerateLength, "max-length", 4096, "maximum generated password length")
	fset.Float64Var(&options.RateLimitRPS, "rps", 5, "generate requests per second per caller")
	fset.IntVar(&options.RateLimitBurst, "burst", 10, "generate request burst per caller")
	fset.DurationVar(&options.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(options); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// MaxGenerateLengthLimit is the largest accepted MaxGenerateLength.
const MaxGenerateLengthLimit = 1 << 20

func (o *Options) validate() error {
	switch {
	case o.MaxGenerateLength == 0 || o.MaxGenerateLength > MaxGenerateLengthLimit:
		return fmt.Errorf("max generate length must be between 1 and %d, got %d", MaxGenerateLengthLimit, o.MaxGenerateLength)
	case o.RateLimitRPS <= 0:
		return fmt.Errorf("rate limit rps must be positive, got %v", o.RateLimitRPS)
	case o.RateLimitBurst <= 0:
		return fmt.Errorf("rate limit burst must be positive, got %d", o.RateLimitBurst)
	case o.ShutdownTimeout <= 0:
		return fmt.Errorf("shutdown timeout must be positive, got %s", o.ShutdownTimeout)
	}
	return nil
}
