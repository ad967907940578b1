// Package main provides the probe command-line tool that samples node IDs
// across a span to estimate where the articles live before a full scan.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/fetch"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/internal/models"
	"mechanicape-archief/pkg/utils"
)

const defaultConfigPath = "configs/archief.yaml"

type sample struct {
	id    int
	title string
}

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file")
	start := flag.Int("start", 1, "First node ID to probe")
	end := flag.Int("end", 2900, "Last node ID to probe")
	step := flag.Int("step", 10, "Probe every Nth ID")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	if *start < 1 || *end < *start || *step < 1 {
		log.Fatalf("❌ Invalid span: start=%d end=%d step=%d\n", *start, *end, *step)
	}

	cfg := loadConfig(*configFile)

	fmt.Println("🔍 Mechanicape Node Probe")
	fmt.Printf("Site: %s\n", cfg.Site.BaseURL)
	fmt.Printf("Span: %d-%d, every %d IDs\n", *start, *end, *step)
	fmt.Println()

	lg := logger.NewLogger(cfg.Logging.Level)
	fetcher := fetch.NewFetcher(cfg, lg)
	strhelper := utils.NewStringHelper()

	counts := make(map[models.Reason]int)

	var samples []sample

	probed := 0
	delay := cfg.Scan.GetDelay()

	for id := *start; id <= *end; id += *step {
		outcome := fetcher.FetchNode(id)
		counts[outcome.Reason]++
		probed++

		if outcome.OK() {
			samples = append(samples, sample{id: id, title: outcome.Article.Title})

			if cfg.Logging.ShowProgress {
				fmt.Printf("✅ %d: %s\n", id, strhelper.TruncateString(outcome.Article.Title, 60))
			}
		}

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	// Print statistics
	fmt.Printf("\n📊 Probed %d IDs:\n", probed)

	for _, reason := range []models.Reason{models.ReasonOK, models.ReasonNotFound, models.ReasonMalformed, models.ReasonTooShort} {
		count := counts[reason]
		fmt.Printf("  %-10s %4d (%.1f%%)\n", string(reason)+":", count, percentage(count, probed))
	}

	if sampleCount := cfg.Logging.SampleArticles; sampleCount > 0 && len(samples) > 0 {
		fmt.Printf("\n📝 Sample articles (first %d):\n", sampleCount)

		for i := 0; i < sampleCount && i < len(samples); i++ {
			fmt.Printf("  [%d] %s\n", samples[i].id, samples[i].title)
		}
	}

	fmt.Printf("\n📈 Estimated article density: %.1f%%\n", percentage(counts[models.ReasonOK], probed))
	fmt.Println("\n✨ Probe complete!")
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(count) / float64(total) * 100
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

func printUsage() {
	fmt.Println("Usage: ./bin/probe [OPTIONS]")
	fmt.Println()
	fmt.Println("Samples node IDs across a span and reports how many resolve to real")
	fmt.Println("articles. Use it to pick scan ranges before running the archiver.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/probe -start 2700 -end 2900 -step 5")
	fmt.Println("  ./bin/probe -config configs/archief.yaml -step 25")
}
