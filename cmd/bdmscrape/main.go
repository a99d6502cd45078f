package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/bdmscrape"
	"github.com/fwojciec/bdmscrape/bloom"
	"github.com/fwojciec/bdmscrape/fs"
	"github.com/fwojciec/bdmscrape/goquery"
	"github.com/fwojciec/bdmscrape/htmltomarkdown"
	bdmhttp "github.com/fwojciec/bdmscrape/http"
	"github.com/fwojciec/bdmscrape/rod"
	"github.com/fwojciec/bdmscrape/scrape"
	bdmslog "github.com/fwojciec/bdmscrape/slog"
	"github.com/fwojciec/bdmscrape/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher for end-to-end testing.
	Fetcher bdmscrape.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		NewWriter: func(dir string) bdmscrape.ArticleWriter {
			return fs.NewWriter(filepath.Dir(dir), filepath.Base(dir))
		},
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bdmscrape"),
		kong.Description("Scrape Blog du Modérateur articles into a local database."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bdmscrape --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := DefaultConfig()
	if cli.Config != "" {
		cfg, err = LoadConfig(cli.Config)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return err
		}
	}
	deps.Config = cfg

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BDMSCRAPE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Articles = bdmslog.NewLoggingArticleService(sqlite.NewArticleService(m.DB), deps.Logger)

	if strings.HasPrefix(kongCtx.Command(), "scrape") {
		cfg.Apply(&cli.Scrape)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return err
		}

		scraper, err := m.newScraper(ctx, cfg, &cli.Scrape, deps)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", bdmscrape.ErrorMessage(err))
			return err
		}
		defer scraper.Fetcher.Close()
		deps.Scraper = scraper
	}

	return kongCtx.Run(deps)
}

// newScraper wires the scraper for the effective configuration.
func (m *Main) newScraper(ctx context.Context, cfg *Config, cmd *ScrapeCmd, deps *Dependencies) (*scrape.Scraper, error) {
	fetcher := m.Fetcher
	if fetcher == nil && cfg.Browser {
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithUserAgent(cfg.UserAgent),
		)
		if err != nil {
			return nil, bdmscrape.Errorf(bdmscrape.EINTERNAL, "start browser: %v", err)
		}
		fetcher = f
	}
	if fetcher == nil {
		fetcher = bdmhttp.NewFetcher(
			bdmhttp.WithTimeout(cfg.Timeout),
			bdmhttp.WithUserAgent(cfg.UserAgent),
			bdmhttp.WithHeader("Accept-Language", "fr-FR,fr;q=0.9"),
		)
	}

	listings, details := newExtractors(cfg.Markup, htmltomarkdown.NewConverter(), deps.Logger)

	s := &scrape.Scraper{
		Fetcher:     bdmslog.NewLoggingFetcher(fetcher, deps.Logger),
		Listings:    listings,
		Details:     details,
		Articles:    deps.Articles,
		RateLimiter: scrape.NewDomainLimiter(cfg.RateLimit),
		BaseURL:     cfg.BaseURL,
		Incremental: cmd.Incremental,
		Concurrency: cfg.Concurrency,
		RetryDelays: cfg.RetryDelays(),
		Log: func(format string, args ...any) {
			deps.Logger.Warn(fmt.Sprintf(format, args...))
		},
	}

	if cmd.DryRun {
		s.Articles = nil
		s.Incremental = false
		return s, nil
	}

	if cmd.Incremental {
		stored, err := deps.Articles.FindArticles(ctx, bdmscrape.ArticleFilter{})
		if err != nil {
			return nil, err
		}
		urls := make([]string, len(stored))
		for i, a := range stored {
			urls[i] = a.URL
		}
		s.Known = bloom.NewFilterFromURLs(urls)
	}

	return s, nil
}

// newExtractors returns the listing and detail extractors for a markup
// selection. Auto detects the markup of every page.
func newExtractors(markup string, conv bdmscrape.Converter, logger *slog.Logger) (bdmscrape.ListingExtractor, bdmscrape.DetailExtractor) {
	var profile goquery.Profile
	switch markup {
	case MarkupCurrent:
		profile = goquery.CurrentProfile
	case MarkupLegacy:
		profile = goquery.LegacyProfile
	default:
		registry := goquery.NewDefaultRegistry(bdmslog.NewLoggingDetector(goquery.NewDetector(), logger))
		registry.SetConverter(conv)
		return registry, registry
	}
	return goquery.NewListingExtractor(profile), goquery.NewDetailExtractor(profile, goquery.WithConverter(conv))
}

func defaultDBPath() string {
	if path := os.Getenv("BDMSCRAPE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bdmscrape.db"
	}
	dir := filepath.Join(home, ".bdmscrape")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "bdmscrape.db")
}
