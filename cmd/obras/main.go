package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/obras"
	"github.com/fwojciec/obras/fs"
	"github.com/fwojciec/obras/goquery"
	obrashttp "github.com/fwojciec/obras/http"
	"github.com/fwojciec/obras/scrape"
	obrasslog "github.com/fwojciec/obras/slog"
	"github.com/fwojciec/obras/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Input    string        `short:"i" default:"projects_main.html" help:"Saved listing page to read"`
	Output   string        `short:"o" default:"final_projects.csv" help:"CSV file to write"`
	BaseURL  string        `name:"base-url" default:"${base_url}" help:"Detail page URL prefix; the project identifier is appended"`
	Timeout  time.Duration `short:"t" default:"15s" help:"Timeout per detail request"`
	Insecure bool          `default:"true" negatable:"" help:"Skip TLS certificate verification (--no-insecure to verify)"`
	DB       string        `name:"db" env:"OBRAS_DB" help:"Also archive the run in this SQLite database"`
	Preview  bool          `short:"p" help:"List the detail pages that would be fetched without fetching them"`
	Debug    bool          `short:"d" help:"Log fetches, extraction and storage to stderr"`
	Runs     bool          `help:"List the runs archived in --db and exit"`
}

// Config converts the parsed flags into a run configuration.
func (c *CLI) Config() obras.Config {
	return obras.Config{
		ListingPath:        c.Input,
		OutputPath:         c.Output,
		DetailBaseURL:      c.BaseURL,
		Timeout:            c.Timeout,
		InsecureSkipVerify: c.Insecure,
		DBPath:             c.DB,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("obras"),
		kong.Description("Scrape Obras por Impuestos project details into a CSV file"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"base_url": obras.DefaultDetailBaseURL},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	for _, arg := range args {
		if arg == "--help" || arg == "-h" || arg == "help" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg := cli.Config()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", obras.ErrorMessage(err))
	}

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	if cli.Runs {
		if cfg.DBPath == "" {
			return fmt.Errorf("--runs requires --db or OBRAS_DB")
		}
		if err := m.openDB(cfg.DBPath, stderr); err != nil {
			return err
		}
		defer m.Close()

		deps.Archive = sqlite.NewRecordStore(m.DB)
		return (&RunsCmd{}).Run(deps)
	}

	fetcher := obrashttp.NewFetcher(
		obrashttp.WithTimeout(cfg.Timeout),
		obrashttp.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	)
	defer fetcher.Close()

	deps.Fetcher = fetcher
	deps.Listing = goquery.NewListingExtractor()
	deps.Details = goquery.NewDetailExtractor()
	deps.Store = fs.NewCSVStore(cfg.OutputPath)

	if cfg.DBPath != "" && !cli.Preview {
		if err := m.openDB(cfg.DBPath, stderr); err != nil {
			return err
		}
		defer m.Close()

		deps.Archive = sqlite.NewRecordStore(m.DB)
		deps.RunID = deps.Archive.RunID()
		// The archive commits first so a failed archive leaves no CSV behind.
		deps.Store = obras.MultiStore(deps.Archive, deps.Store)
	}

	if cli.Debug {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		deps.Fetcher = obrasslog.NewLoggingFetcher(deps.Fetcher, logger)
		deps.Details = obrasslog.NewLoggingDetailExtractor(deps.Details, logger)
		deps.Store = obrasslog.NewLoggingRecordStore(deps.Store, logger)
	}

	deps.Scraper = &scrape.Scraper{
		Listing:       deps.Listing,
		Details:       deps.Details,
		Fetcher:       deps.Fetcher,
		Store:         deps.Store,
		DetailBaseURL: cfg.DetailBaseURL,
	}

	cmd := &ScrapeCmd{
		Input:   cfg.ListingPath,
		Output:  cfg.OutputPath,
		Preview: cli.Preview,
	}

	return cmd.Run(deps)
}

func (m *Main) openDB(path string, stderr io.Writer) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set OBRAS_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}
