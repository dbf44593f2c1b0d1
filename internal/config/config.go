// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the profile store.
	DatabaseDSN string

	// MainServerURL is the base URL of the main server that receives
	// notification and progress-push calls.
	MainServerURL string

	// AESSecretKey is the hex-encoded 32-byte AES key (64 hex chars).
	AESSecretKey string

	// AESIV is the hex-encoded 16-byte AES IV (32 hex chars).
	AESIV string

	// EncryptionEnabled controls field-level decryption of profile
	// documents. Integration credentials are always treated as
	// ciphertext regardless of this flag.
	EncryptionEnabled bool

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:9010", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.MainServerURL, "m", "http://localhost:5000", "main server base URL")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	// Load a local .env file if present; real environment wins.
	_ = godotenv.Load()

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if mainURL := os.Getenv("MAIN_SERVER_URL"); mainURL != "" {
		options.MainServerURL = mainURL
	}
	if key := os.Getenv("AES_SECRET_KEY"); key != "" {
		options.AESSecretKey = key
	}
	if iv := os.Getenv("AES_IV"); iv != "" {
		options.AESIV = iv
	}

	// Profile-field encryption is tied to the deployment environment.
	options.EncryptionEnabled = os.Getenv("ENVIRONMENT") == "stag"

	return options
}
