// Package main provides the archiver command-line tool that scans the legacy
// site by node ID and writes the static article archive.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/fetch"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/internal/render"
	"mechanicape-archief/internal/scan"
)

const defaultConfigPath = "configs/archief.yaml"

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file")
	rangeNames := flag.String("ranges", "", "Comma-separated range labels to scan (overrides enabled flags)")
	resume := flag.Bool("resume", false, "Resume from the cursor of an interrupted run")
	output := flag.String("output", "", "Output directory (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Fetch and classify without writing any files")
	checkRobots := flag.Bool("robots", true, "Check robots.txt before scanning")
	initConfig := flag.Bool("init-config", false, "Write the built-in defaults to "+defaultConfigPath+" and exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	if *initConfig {
		writeDefaultConfig()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *output != "" {
		cfg.Archive.OutputDir = *output
	}

	if *rangeNames != "" {
		if err := selectRanges(cfg, *rangeNames); err != nil {
			log.Fatalf("❌ %v\n", err)
		}
	}

	printArchiverHeader(cfg)

	lg := logger.NewLogger(cfg.Logging.Level)
	fetcher := fetch.NewFetcher(cfg, lg)

	if *checkRobots {
		if fetcher.CheckRobots() {
			fmt.Println("🤖 robots.txt: node pages allowed")
		} else {
			fmt.Println("⚠️  robots.txt disallows /node/, continuing politely throttled")
		}
	}

	if *dryRun {
		fmt.Println("🔍 Dry run: nothing will be written")
	}

	scanner := scan.NewScanner(cfg, fetcher, render.NewRenderer(cfg), lg)

	fmt.Printf("🚀 Scanning %d ranges...\n", len(cfg.EnabledRanges()))

	report, err := scanner.Run(scan.Options{Resume: *resume, DryRun: *dryRun})
	if err != nil {
		log.Fatalf("❌ Scan failed: %v\n", err)
	}

	// Print statistics
	fmt.Println("\n📊 Scan summary:")
	fmt.Print(scan.FormatSummary(report))

	if report.Resumed {
		fmt.Println("\nℹ️  Resumed from an earlier interrupted run")
	}

	fmt.Printf("\n✨ Done: %d articles from %d scanned IDs", report.TotalSaved(), report.TotalScanned())

	if failed := report.TotalWriteFailed(); failed > 0 {
		fmt.Printf(" (%d write failures)", failed)
	}

	fmt.Println()

	if !*dryRun {
		fmt.Printf("📂 Archive: %s\n", cfg.Archive.OutputDir)
		fmt.Printf("📝 Report: %s\n", cfg.Scan.ReportFile)
	}
}

// loadConfig loads the configured, the default, or the built-in configuration,
// in that order.
func loadConfig(path string) *config.Config {
	if path != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", path)

		cfg, err := config.LoadConfig(path)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)

		return cfg
	}

	if _, statErr := os.Stat(defaultConfigPath); statErr == nil {
		fmt.Printf("⚙️  Loading default configuration: %s\n", defaultConfigPath)

		cfg, err := config.LoadConfig(defaultConfigPath)
		if err != nil {
			log.Fatalf("❌ Failed to load default config: %v\n", err)
		}

		fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)

		return cfg
	}

	fmt.Println("⚙️  No config file found, using built-in defaults")
	fmt.Println()

	return config.DefaultConfig()
}

// writeDefaultConfig saves the built-in defaults as a starting point for a
// customized config file. Refuses to overwrite an existing file.
func writeDefaultConfig() {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		log.Fatalf("❌ %s already exists, refusing to overwrite\n", defaultConfigPath)
	}

	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Fatalf("❌ Could not create configs directory: %v\n", err)
	}

	if err := config.DefaultConfig().SaveConfig(defaultConfigPath); err != nil {
		log.Fatalf("❌ Failed to write config: %v\n", err)
	}

	fmt.Printf("✅ Wrote default configuration to: %s\n", defaultConfigPath)
}

// selectRanges enables exactly the named ranges and disables the rest.
func selectRanges(cfg *config.Config, names string) error {
	wanted := make(map[string]bool)

	for _, name := range strings.Split(names, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			wanted[trimmed] = true
		}
	}

	matched := 0

	for i := range cfg.Scan.Ranges {
		if wanted[cfg.Scan.Ranges[i].Label()] {
			cfg.Scan.Ranges[i].Enabled = true
			matched++
		} else {
			cfg.Scan.Ranges[i].Enabled = false
		}
	}

	if matched == 0 {
		return fmt.Errorf("no configured range matches %q", names)
	}

	return nil
}

func printArchiverHeader(cfg *config.Config) {
	total := 0
	for _, rng := range cfg.EnabledRanges() {
		total += rng.Count()
	}

	fmt.Println("🕷️  Mechanicape Archiver")
	fmt.Printf("Site: %s\n", cfg.Site.BaseURL)
	fmt.Printf("Enabled ranges: %d (%d IDs)\n", len(cfg.EnabledRanges()), total)
	fmt.Printf("Throttle: %s between requests, %s timeout\n", cfg.Scan.GetDelay(), cfg.Site.GetTimeout())
	fmt.Printf("Output: %s\n", cfg.Archive.OutputDir)
	fmt.Println()
}

func printUsage() {
	fmt.Println("Usage: ./bin/archiver [OPTIONS]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  1. Config-based:   ./bin/archiver -config configs/archief.yaml")
	fmt.Println("  2. Default config: ./bin/archiver (reads configs/archief.yaml if exists)")
	fmt.Println("  3. Built-in:       ./bin/archiver (falls back to compiled-in defaults)")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/archiver -init-config")
	fmt.Println("  ./bin/archiver -config configs/archief.yaml")
	fmt.Println("  ./bin/archiver -ranges 2800-2899,2700-2799")
	fmt.Println("  ./bin/archiver -resume")
	fmt.Println("  ./bin/archiver -dry-run -ranges 1-499")
}
