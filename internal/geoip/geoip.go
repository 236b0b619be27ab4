// Package geoip resolves server addresses to ISO country codes using a
// MaxMind GeoLite2 database, downloading and refreshing the MMDB file
// as needed.
package geoip

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// Provider wraps a GeoIP2 reader for country lookups.
type Provider struct {
	db *geoip2.Reader
}

// Open reads the MMDB file at path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db}, nil
}

// Close releases the underlying reader.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Lookup returns the ISO country code for an address, or an empty
// string when the address is invalid or unknown to the database.
func (p *Provider) Lookup(address string) string {
	ip := net.ParseIP(address)
	if ip == nil {
		return ""
	}

	country, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return country.Country.IsoCode
}

// EnsureDB downloads the MMDB file from url when it is missing at path
// or older than maxAge.
func EnsureDB(path, url string, maxAge time.Duration) error {
	info, err := os.Stat(path)

	switch {
	case err == nil && time.Since(info.ModTime()) < maxAge:
		log.Debug().Str("path", path).Msg("GeoIP database is fresh")
		return nil
	case err == nil:
		log.Info().Str("path", path).Msg("GeoIP database outdated, refreshing")
	case os.IsNotExist(err):
		log.Info().Str("path", path).Msg("GeoIP database missing, downloading")
	default:
		return err
	}

	return download(path, url)
}

// download fetches url into path via a temporary file so a failed
// transfer never clobbers a working database.
func download(path, url string) error {
	client := &http.Client{Timeout: 2 * time.Minute}

	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geoip download: unexpected status %d", resp.StatusCode)
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
