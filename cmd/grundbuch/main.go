// Command grundbuch reconstructs a land-register sheet from a project
// directory and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsawler/grundbuch"
	"github.com/tsawler/grundbuch/config"
)

// defaultConfigFile is looked up in the project directory when -config is not given
const defaultConfigFile = "grundbuch.yaml"

type options struct {
	dir        string
	configPath string
	workers    int
	pages      []int
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "grundbuch: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "grundbuch: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: grundbuch [flags] <project-dir>\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "Project configuration (default: <project-dir>/"+defaultConfigFile+" if present)")
	workers := flag.Int("workers", 0, "Concurrent pages and columns (default: from configuration)")
	pages := flag.String("pages", "", "Comma-separated page numbers, e.g. 1,2,5")
	verbose := flag.Bool("v", false, "Log debug events")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing project directory")
	}
	opts.dir = flag.Arg(0)
	opts.configPath = *configPath
	opts.workers = *workers
	opts.verbose = *verbose

	if *pages != "" {
		for _, part := range strings.Split(*pages, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return options{}, fmt.Errorf("invalid page %q", part)
			}
			opts.pages = append(opts.pages, n)
		}
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = filepath.Join(opts.dir, defaultConfigFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	cfg, err := config.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	res, err := grundbuch.OpenDir(opts.dir).
		WithConfig(cfg).
		WithLogger(logger).
		Pages(opts.pages...).
		Extract(ctx)
	if err != nil {
		return err
	}
	for _, page := range res.FailedPages() {
		logger.Warn("page skipped", "page", page, "err", res.PageErrors[page])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
