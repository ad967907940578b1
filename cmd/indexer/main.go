// Package main provides the indexer command-line tool that builds the
// archive index page from the rendered articles on disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/render"
)

const defaultConfigPath = "configs/archief.yaml"

// Article filenames start with the publication date.
var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

func main() {
	// Define command-line flags
	configFile := flag.String("config", "", "Path to YAML configuration file")
	archiveDir := flag.String("dir", "", "Archive directory to index (overrides config)")
	output := flag.String("output", "", "Index filename (overrides config)")
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

	if *output != "" {
		cfg.Archive.IndexFile = *output
	}

	fmt.Println("📚 Mechanicape Archive Indexer")
	fmt.Printf("Archive: %s\n", cfg.Archive.OutputDir)
	fmt.Printf("Index: %s\n", cfg.Archive.IndexPath())
	fmt.Println()

	entries, err := collectEntries(cfg)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	if len(entries) == 0 {
		fmt.Println("⚠️  No article pages found, writing an empty index")
	}

	renderer := render.NewRenderer(cfg)

	page, err := renderer.RenderIndex(entries)
	if err != nil {
		log.Fatalf("❌ Failed to render index: %v\n", err)
	}

	if err := os.WriteFile(cfg.Archive.IndexPath(), []byte(page), 0644); err != nil {
		log.Fatalf("❌ Failed to write index: %v\n", err)
	}

	fmt.Printf("✅ Indexed %d articles\n", len(entries))
	fmt.Printf("📝 Saved to: %s\n", cfg.Archive.IndexPath())
	fmt.Println("\n✨ Indexing complete!")
}

// collectEntries parses every article page in the archive directory. The
// date comes from the filename prefix, the title and paragraph count from
// the page itself.
func collectEntries(cfg *config.Config) ([]render.IndexEntry, error) {
	dirEntries, err := os.ReadDir(cfg.Archive.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var entries []render.IndexEntry

	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, ".html") || name == cfg.Archive.IndexFile {
			continue
		}

		entry, err := parsePage(filepath.Join(cfg.Archive.OutputDir, name))
		if err != nil {
			fmt.Printf("⚠️  Skipping %s: %v\n", name, err)

			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parsePage(path string) (render.IndexEntry, error) {
	name := filepath.Base(path)

	file, err := os.Open(path)
	if err != nil {
		return render.IndexEntry{}, fmt.Errorf("failed to open page: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return render.IndexEntry{}, fmt.Errorf("failed to parse page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return render.IndexEntry{}, fmt.Errorf("no title heading found")
	}

	date := ""
	if m := datePrefix.FindStringSubmatch(name); m != nil {
		date = m[1]
	}

	return render.IndexEntry{
		Title:      title,
		Date:       date,
		Filename:   name,
		Paragraphs: doc.Find("article p").Length(),
	}, nil
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
	fmt.Println("Usage: ./bin/indexer [OPTIONS]")
	fmt.Println()
	fmt.Println("Builds the archive index page from the article pages on disk. Run it")
	fmt.Println("after the archiver, and again after any manual cleanup of the archive.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/indexer")
	fmt.Println("  ./bin/indexer -dir archief -output index.html")
}
