// Package main provides the localizer command-line tool that downloads the
// remote media referenced by archived pages and rewrites the references to
// local copies.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/localize"
	"mechanicape-archief/internal/logger"
)

const defaultConfigPath = "configs/archief.yaml"

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file")
	archiveDir := flag.String("dir", "", "Archive directory to process (overrides config)")
	indexFile := flag.String("index", "", "Index filename to leave untouched (overrides config)")
	remotePrefix := flag.String("prefix", "", "Remote URL prefix to localize (overrides config)")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *archiveDir != "" {
		cfg.Archive.OutputDir = *archiveDir
	}

	if *indexFile != "" {
		cfg.Archive.IndexFile = *indexFile
	}

	if *remotePrefix != "" {
		cfg.Localize.RemotePrefix = *remotePrefix
	}

	printLocalizerHeader(cfg)

	lg := logger.NewLogger(cfg.Logging.Level)
	loc := localize.NewLocalizer(cfg, lg)

	summary, err := loc.Run()
	if err != nil {
		log.Fatalf("❌ Localization failed: %v\n", err)
	}

	// Print statistics
	fmt.Printf("\n📈 Summary:\n")
	fmt.Printf("  Pages processed: %d\n", summary.Files)
	fmt.Printf("  Pages rewritten: %d\n", summary.Updated)
	fmt.Printf("  Media downloaded: %d\n", summary.Downloaded)
	fmt.Printf("  Downloads failed: %d\n", summary.Failed)

	if summary.Errors > 0 {
		fmt.Printf("  Pages skipped: %d\n", summary.Errors)
	}

	if summary.Failed > 0 {
		fmt.Println("\n⚠️  Failed references stay remote; rerun to retry them")
	}

	fmt.Println("\n✨ Localization complete!")
}

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

func printLocalizerHeader(cfg *config.Config) {
	fmt.Println("🖼️  Mechanicape Media Localizer")
	fmt.Printf("Archive: %s\n", cfg.Archive.OutputDir)
	fmt.Printf("Remote prefix: %s\n", cfg.Localize.RemotePrefix)
	fmt.Printf("Media directory: %s\n", cfg.Archive.ImagesPath())
	fmt.Printf("Throttle: %s between downloads, %s timeout\n", cfg.Localize.GetDelay(), cfg.Localize.GetTimeout())
	fmt.Println()
}

func printUsage() {
	fmt.Println("Usage: ./bin/localizer [OPTIONS]")
	fmt.Println()
	fmt.Println("Downloads every media file referenced from the legacy host and rewrites")
	fmt.Println("archived pages to use the local copies. Safe to rerun; already local")
	fmt.Println("references and already downloaded files are left alone.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/localizer")
	fmt.Println("  ./bin/localizer -config configs/archief.yaml")
	fmt.Println("  ./bin/localizer -dir archief -prefix https://mechanicape.nl/")
}
