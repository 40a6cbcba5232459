package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/postfetch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Finder      postfetch.Finder
	Extractions postfetch.ExtractionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" help:"Config file (default ~/.postfetch/config.yaml)"`
	Verbose bool   `short:"v" help:"Log fetches, feed discovery and classification to stderr"`

	Find    FindCmd    `cmd:"" help:"Extract recent posts from web pages"`
	History HistoryCmd `cmd:"" help:"List or manage stored extractions"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	URLs []string `arg:"" name:"url" help:"Start page URLs"`

	HTML        string        `type:"existingfile" help:"Read the page HTML from a file instead of fetching it (single URL only)"`
	MaxPosts    int           `short:"n" default:"${max_posts}" help:"Maximum posts per result"`
	Trim        int           `default:"${trim}" help:"Word budget per post body"`
	NoClean     bool          `help:"Keep each post as its raw text"`
	NoBlog      bool          `help:"Do not look for blog pages linked from the start page"`
	ClassOnly   bool          `help:"Only run the class-signature strategy and return its last set even when rejected"`
	FullText    bool          `help:"Include the page text in the result"`
	Timeout     time.Duration `default:"${page_timeout}" help:"Page acquisition timeout"`
	Concurrency int           `short:"c" default:"4" help:"URLs processed at once"`
	Pretty      bool          `short:"p" help:"Indent JSON output"`
	NoSave      bool          `help:"Do not store results in the history database"`

	Model     string  `default:"${model}" help:"Trained forest model (JSON); the built-in rules are used without one"`
	Extractor string  `enum:"trafilatura,readability" default:"trafilatura" help:"Main content extractor (trafilatura, readability)"`
	Markdown  bool    `help:"Render main content as Markdown lines"`
	Rate      float64 `default:"${rate_limit}" help:"Requests per second per domain (0 disables limiting)"`
	NoBrowser bool    `help:"Never fall back to headless Chrome"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL    string `arg:"" optional:"" help:"Only show extractions of this URL"`
	Method string `short:"m" help:"Only show extractions made by this method"`
	Limit  int    `short:"l" default:"20" help:"Maximum extractions listed"`
	Show   string `help:"Print the stored result of the extraction with this ID"`
	Delete string `help:"Delete the extraction with this ID"`
}
