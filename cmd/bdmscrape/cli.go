package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/bdmscrape"
	"github.com/fwojciec/bdmscrape/scrape"
	"github.com/fwojciec/bdmscrape/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Articles  bdmscrape.ArticleService
	Scraper   *scrape.Scraper
	Config    *Config
	NewWriter func(dir string) bdmscrape.ArticleWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" help:"YAML config file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape category listings and store the articles"`
	List   ListCmd   `cmd:"" help:"List stored articles"`
	Show   ShowCmd   `cmd:"" help:"Show a stored article"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored article"`
	Export ExportCmd `cmd:"" help:"Export stored articles as markdown files"`
}

// ScrapeCmd is the "scrape" subcommand. Unset flags fall back to the config
// file, then to defaults.
type ScrapeCmd struct {
	Categories  []string      `arg:"" optional:"" help:"Categories to scrape (default: web, marketing, social, tech)"`
	BaseURL     string        `name:"base-url" help:"Site root URL"`
	Markup      string        `help:"Markup profile: auto, current or legacy"`
	Concurrency int           `short:"c" help:"Concurrent detail fetch limit (default 1)"`
	Timeout     time.Duration `help:"HTTP request timeout (default 10s)"`
	RateLimit   float64       `name:"rate-limit" default:"-1" help:"Requests per second per host, 0 disables (default 1)"`
	Retries     int           `default:"-1" help:"Retries per failed fetch (default 0)"`
	UserAgent   string        `name:"user-agent" help:"User-Agent header"`
	Browser     bool          `help:"Render pages with headless Chrome"`
	Incremental bool          `short:"i" help:"Reuse stored detail fields for known articles"`
	DryRun      bool          `name:"dry-run" help:"Extract and report without storing"`
	Quiet       bool          `short:"q" help:"Only print the summary"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Category    string `help:"Only articles of this category"`
	Subcategory string `help:"Only articles of this subcategory"`
	Limit       int    `short:"n" help:"Maximum number of articles"`
	Offset      int    `help:"Number of articles to skip"`
	Full        bool   `help:"Show every field"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL  string `arg:"" help:"Article URL"`
	JSON bool   `name:"json" help:"Print the article as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Article URL"`
	Force bool   `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir         string `arg:"" type:"path" help:"Output directory (replaced on success)"`
	Category    string `help:"Only articles of this category"`
	Subcategory string `help:"Only articles of this subcategory"`
}
