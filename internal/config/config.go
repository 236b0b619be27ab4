// Package config parses application configuration from command-line
// flags and environment variables.
package config

import (
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/sampstat/sampstat/internal/logger"
	"github.com/sampstat/sampstat/internal/vars"
)

// Config is the complete application configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"SAMPSTAT"`
	Query     Query         `group:"Query Options" namespace:"query" env-namespace:"SAMPSTAT_QUERY"`
	Mock      Mock          `group:"Mock Options" namespace:"mock" env-namespace:"SAMPSTAT_MOCK"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"SAMPSTAT_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"SAMPSTAT_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"SAMPSTAT_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address    string   `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	Origins    []string `short:"o" long:"origin" env:"ORIGINS" description:"Allowed CORS origins" default:"*" env-delim:","`
	TrustProxy bool     `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Query holds SA-MP query protocol configuration.
type Query struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"UDP exchange timeout" default:"5s"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Response buffer size" default:"2048"`
}

// Mock holds synthetic fallback configuration.
type Mock struct {
	// betteralign:ignore

	Seed int64 `long:"seed" env:"SEED" description:"Fixed jitter seed for synthetic records (0 = from clock)"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Disable  bool          `long:"disable" env:"DISABLE" description:"Disable country enrichment"`
	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file" default:"sampstat.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	Count  int           `long:"count" env:"COUNT" description:"Per-IP limit: requests count" default:"30"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Per-IP limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application on invalid input or when the help or
// version flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return &cfg
}
