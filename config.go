package obras

import (
	"strings"
	"time"
)

// Defaults matching the portal's published layout.
const (
	DefaultListingPath   = "projects_main.html"
	DefaultOutputPath    = "final_projects.csv"
	DefaultDetailBaseURL = "https://obrasporimpuestos.renovacionterritorio.gov.co/ObrasImpuestos/_DetalleProyecto?idProyecto="
	DefaultFetchTimeout  = 15 * time.Second
)

// Config holds the settings for one scraping run.
type Config struct {
	// ListingPath is the saved listing page to read.
	ListingPath string

	// OutputPath is the CSV file to write.
	OutputPath string

	// DetailBaseURL is prefixed to each project identifier.
	DetailBaseURL string

	// Timeout bounds each detail request.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate validation for detail
	// requests. Defaults to true; set it to false to verify the portal's
	// certificate.
	InsecureSkipVerify bool

	// DBPath optionally archives the run into a SQLite database.
	DBPath string
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		ListingPath:        DefaultListingPath,
		OutputPath:         DefaultOutputPath,
		DetailBaseURL:      DefaultDetailBaseURL,
		Timeout:            DefaultFetchTimeout,
		InsecureSkipVerify: true,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListingPath) == "" {
		return Errorf(EINVALID, "listing path required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return Errorf(EINVALID, "output path required")
	}
	if c.DetailBaseURL == "" {
		return Errorf(EINVALID, "detail base URL required")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	return nil
}
