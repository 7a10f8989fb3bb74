package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/config"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/lookup"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/output"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/overrides"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/registry"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/resolver"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/transform"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/ui"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/validate"
)

const (
	version = "0.1.0"
)

var (
	// Global flags
	versionFlag = flag.Bool("version", false, "Show version")

	// Core CLI flags
	inputFile = flag.String("input", "", "Broker export file to convert (required)")
	dryRun    = flag.Bool("dry-run", false, "Parse and resolve without writing")
	verbose   = flag.Bool("verbose", false, "Show detailed conversion logs")

	// Output flags
	outputFile = flag.String("output", "", "Output JSON file (default: stdout)")
	mergeMode  = flag.Bool("merge", false, "Append activities to an existing output file")

	// Configuration flags
	configFile    = flag.String("config", "", "YAML config file")
	accountID     = flag.String("account", "", "Account id stamped onto every activity (overrides config)")
	overridesFile = flag.String("overrides", "", "Security identity override file (overrides config)")
	cacheFile     = flag.String("cache", "", "Sqlite lookup cache file (overrides config)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `brokerfeed - Brokerage export to activity feed converter

Usage:
  brokerfeed [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Convert a trade export to stdout
  brokerfeed -input trades.csv -account my-account

  # Convert with overrides and a lookup cache
  brokerfeed -input dividends.csv -account my-account -overrides overrides.txt -cache lookup.db -output feed.json

  # Append a second export to an existing feed
  brokerfeed -input dividends.csv -account my-account -output feed.json -merge

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("brokerfeed version %s\n", version)
		os.Exit(0)
	}

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *accountID != "" {
		cfg.AccountID = *accountID
	}
	if *overridesFile != "" {
		cfg.OverridesFile = *overridesFile
	}
	if *cacheFile != "" {
		cfg.CacheFile = *cacheFile
	}
	if cfg.AccountID == "" {
		return fmt.Errorf("no account id configured (use -account, the config file, or BROKERFEED_ACCOUNT)")
	}

	if !*verbose {
		ui.Header("Converting Brokerage Export")
		ui.Step(1, 4, "Loading overrides")
	}

	table, err := overrides.Load(cfg.OverridesFile)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d identity overrides from %s\n", len(table), cfg.OverridesFile)
	} else {
		ui.Success(fmt.Sprintf("Loaded %d identity overrides", len(table)))
	}

	// Build the lookup service, optionally behind the sqlite cache
	var svc lookup.Service
	if cfg.LookupBaseURL != "" {
		svc = lookup.NewYahooClientWithBaseURL(cfg.LookupBaseURL)
	} else {
		svc = lookup.NewYahooClient()
	}
	if cfg.CacheFile != "" {
		cache, err := lookup.OpenCache(cfg.CacheFile, svc)
		if err != nil {
			return err
		}
		defer cache.Close()
		svc = cache
		if *verbose {
			fmt.Fprintf(os.Stderr, "Lookup cache enabled: %s\n", cfg.CacheFile)
		}
	}

	res, err := resolver.New(table, svc, cfg.DefaultCurrency)
	if err != nil {
		return err
	}

	if !*verbose {
		ui.Step(2, 4, "Parsing export file")
	}

	reg := registry.New()
	if *verbose {
		fmt.Fprintf(os.Stderr, "Registered parsers: %v\n", reg.ListParsers())
	}

	p, err := reg.FindParser(*inputFile)
	if err != nil {
		return err
	}

	meta, err := parser.NewMetadata(*inputFile, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	f, err := os.Open(*inputFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *inputFile, err)
	}

	rows, err := p.Parse(ctx, f, meta)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("parse failed for %s: %w", *inputFile, err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", *inputFile, closeErr)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed %d rows with %s parser\n", len(rows), p.Name())
	} else {
		ui.Success(fmt.Sprintf("Parsed %d rows (%s)", len(rows), p.Name()))
	}

	if *dryRun {
		fmt.Printf("Dry run complete. Would convert %d rows.\n", len(rows))
		return nil
	}

	if !*verbose {
		ui.Step(3, 4, "Resolving and converting rows")
	}

	asm, err := transform.NewAssembler(cfg.AccountID)
	if err != nil {
		return err
	}
	pipeline, err := transform.NewPipeline(res, asm)
	if err != nil {
		return err
	}

	activities, stats, err := pipeline.Run(ctx, rows)
	if err != nil {
		return err
	}

	reportStats(stats, len(activities))

	export := domain.NewExport(activities)

	if !*verbose {
		ui.Step(4, 4, "Validating and writing feed")
	}

	result := validate.ValidateExport(export)
	if len(result.Errors) > 0 {
		for i, e := range result.Errors {
			if !*verbose && i >= 5 {
				ui.Error(fmt.Sprintf("... and %d more errors", len(result.Errors)-5))
				break
			}
			fmt.Fprintf(os.Stderr, "  - activity %d (%s) [%s]: %s\n", e.Index, e.Symbol, e.Field, e.Message)
		}
		return fmt.Errorf("validation failed with %d errors", len(result.Errors))
	}
	for _, w := range result.Warnings {
		ui.Warning(fmt.Sprintf("activity %d (%s) [%s]: %s", w.Index, w.Symbol, w.Field, w.Message))
	}

	opts := output.WriteOptions{
		MergeMode: *mergeMode,
		FilePath:  *outputFile,
	}
	if err := output.WriteExportToFile(export, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if *outputFile != "" {
		ui.Success(fmt.Sprintf("Feed written to %s", *outputFile))
	}

	return nil
}

// reportStats prints the conversion summary to stderr
func reportStats(stats *transform.Stats, total int) {
	fmt.Fprintf(os.Stderr, "\nConversion complete:\n")
	fmt.Fprintf(os.Stderr, "  Activities: %d\n", total)
	fmt.Fprintf(os.Stderr, "  Trades: %d\n", stats.TradesEmitted)
	fmt.Fprintf(os.Stderr, "  Dividend events: %d\n", stats.DividendsEmitted)
	if stats.PairsMerged > 0 {
		fmt.Fprintf(os.Stderr, "  Merged dividend/tax pairs: %d\n", stats.PairsMerged)
	}
	if stats.MissingIdentifier > 0 {
		fmt.Fprintf(os.Stderr, "  Dropped cash rows: %d\n", stats.MissingIdentifier)
	}
	if stats.Unresolved > 0 {
		fmt.Fprintf(os.Stderr, "  Unresolved identifiers: %d\n", stats.Unresolved)
		for _, id := range stats.UnresolvedExamples() {
			fmt.Fprintf(os.Stderr, "    - %s\n", id)
		}
	}
}
