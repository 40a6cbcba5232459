package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/bloom"
	"github.com/fwojciec/postfetch/classify"
	"github.com/fwojciec/postfetch/crawl"
	"github.com/fwojciec/postfetch/gofeed"
	"github.com/fwojciec/postfetch/goquery"
	"github.com/fwojciec/postfetch/htmltomarkdown"
	pfhttp "github.com/fwojciec/postfetch/http"
	"github.com/fwojciec/postfetch/readability"
	"github.com/fwojciec/postfetch/rod"
	pfslog "github.com/fwojciec/postfetch/slog"
	"github.com/fwojciec/postfetch/sqlite"
	"github.com/fwojciec/postfetch/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. When empty, POSTFETCH_DB, the config file and then
	// ~/.postfetch/postfetch.db are consulted.
	DBPath string

	// Config file path used when --config is not given.
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Extractions postfetch.ExtractionService

	fetcher postfetch.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.fetcher != nil {
		errs = append(errs, m.fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	configPath := m.ConfigPath
	if path, ok := configFlag(args); ok {
		configPath = path
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("getposts"),
		kong.Description("Extract recent post previews from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"max_posts":    strconv.Itoa(cfg.MaxPosts),
			"trim":         strconv.Itoa(cfg.Trim),
			"page_timeout": cfg.PageTimeout.String(),
			"model":        cfg.Model,
			"rate_limit":   strconv.FormatFloat(cfg.RateLimit, 'f', -1, 64),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'getposts --help' to see available commands")
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

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	dbPath := m.dbPath(cfg)
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTFETCH_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.Extractions = sqlite.NewExtractionService(m.DB)
	deps.Extractions = m.Extractions

	if strings.HasPrefix(kongCtx.Command(), "find") {
		finder, err := m.newFinder(&cli.Find, cfg, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check the model path in your config or --model")
			return err
		}
		deps.Finder = finder
	}

	return kongCtx.Run(deps)
}

// newFinder wires the extraction cascade for the find command.
func (m *Main) newFinder(cmd *FindCmd, cfg Config, logger *slog.Logger) (postfetch.Finder, error) {
	httpOpts := []pfhttp.Option{pfhttp.WithTimeout(cfg.FetchTimeout)}
	if cfg.UserAgent != "" {
		httpOpts = append(httpOpts, pfhttp.WithUserAgent(cfg.UserAgent))
	}
	direct := pfhttp.NewFetcher(httpOpts...)

	fetcher := &crawl.FallbackFetcher{
		Primary: &crawl.RetryFetcher{
			Fetcher: pfslog.NewLoggingFetcher(direct, "http", logger),
			Delays:  crawl.DefaultRetryDelays(),
			Logger:  logger,
		},
		Logger: logger,
	}
	if !cmd.NoBrowser {
		fetcher.Fallback = &crawl.LazyFetcher{New: func() (postfetch.Fetcher, error) {
			f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout))
			if err != nil {
				return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			return pfslog.NewLoggingFetcher(f, "rod", logger), nil
		}}
	}
	m.fetcher = fetcher

	var classifier postfetch.Classifier = classify.DefaultRules()
	if cmd.Model != "" {
		forest, err := classify.OpenForest(cmd.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		classifier = forest
	}

	var extractor postfetch.Extractor = trafilatura.NewExtractor()
	if cmd.Extractor == "readability" {
		extractor = readability.NewExtractor()
	}

	var converter postfetch.Converter
	if cmd.Markdown {
		converter = htmltomarkdown.NewConverter()
	}

	feeds := gofeed.NewFeedFinder(
		gofeed.WithClient(direct.Client()),
		gofeed.WithUserAgent(direct.UserAgent()),
	)

	return pfslog.NewLoggingFinder(&crawl.Finder{
		Pages: &crawl.PageDiscoverer{
			Fetcher: fetcher,
			Limiter: crawl.NewDomainLimiter(cmd.Rate),
			NewURLSet: func() postfetch.URLSet {
				return bloom.NewURLSet(urlSetSize, urlSetFPRate)
			},
			Logger: logger,
		},
		Feeds:      pfslog.NewLoggingFeedFinder(feeds, logger),
		Links:      pfslog.NewLoggingFeedFinder(goquery.NewLinkFinder(), logger),
		Classifier: pfslog.NewLoggingClassifier(classifier, logger),
		Extractor:  extractor,
		Converter:  converter,
		Logger:     logger,
	}, logger), nil
}

// Bloom filter sizing for candidate page dedup. A start page rarely links
// to more than a few hundred pages.
const (
	urlSetSize   = 512
	urlSetFPRate = 0.001
)

func (m *Main) dbPath(cfg Config) string {
	if m.DBPath != "" {
		return m.DBPath
	}
	if path := os.Getenv("POSTFETCH_DB"); path != "" {
		return path
	}
	if cfg.Database != "" {
		return cfg.Database
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "postfetch.db"
	}
	dir := filepath.Join(home, ".postfetch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postfetch.db")
}
