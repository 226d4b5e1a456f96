package commands

import (
	"bufio"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fbharvest/lib/configutil"
	"fbharvest/lib/restyutil"
	"fbharvest/lib/scrapers/fbgroup"
	"fbharvest/lib/serviceutil"
	"fbharvest/lib/sqliteutil"
	"fbharvest/services/harvest"
	"fbharvest/services/harvest/db"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type Config struct {
	SessionCookie    string   `json:"session_cookie"`
	UserAgent        string   `json:"user_agent"`
	Proxy            string   `json:"proxy"`
	RequestTimeout   int      `json:"request_timeout"`
	MaxPostsPerGroup int      `json:"max_posts_per_group"`
	PaginationLimit  int      `json:"pagination_limit"`
	OutputDir        string   `json:"output_dir"`
	OutputFormats    []string `json:"output_formats"`
}

var scrapeInput *string
var scrapeMaxPosts *int
var scrapePages *int
var scrapeOutputDir *string
var scrapeFormats *string
var scrapeDb *string

func init() {
	scrapeInput = scrapeCmd.Flags().String("input", "", "File with one group url per line.")
	scrapeMaxPosts = scrapeCmd.Flags().Int("max-posts", 0, "Maximum posts per group (overrides config).")
	scrapePages = scrapeCmd.Flags().Int("pages", 0, "Pagination limit per group (overrides config).")
	scrapeOutputDir = scrapeCmd.Flags().String("output-dir", "", "Output directory (overrides config).")
	scrapeFormats = scrapeCmd.Flags().String("formats", "", "Comma-separated output formats: json,csv,xlsx (overrides config).")
	scrapeDb = scrapeCmd.Flags().String("db", "", "Sqlite database to also persist posts to.")
	rootCmd.AddCommand(scrapeCmd)
}

func readGroupUrls(args []string, inputPath string) ([]string, error) {
	urls := append([]string{}, args...)
	if inputPath == "" {
		return urls, nil
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [group urls...]",
	Short: "Scrapes group feeds into structured post records and exports them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		urls, err := readGroupUrls(args, *scrapeInput)
		if err != nil {
			serviceutil.Fatal("failed to read group urls", err)
		}
		if len(urls) == 0 {
			serviceutil.Fatal("no group urls given", fmt.Errorf("pass urls as arguments or via --input"))
		}

		if cfg.SessionCookie == "" || strings.Contains(cfg.SessionCookie, "your_facebook_session_cookie_here") {
			slog.Warn("session cookie is not configured, set session_cookie in config.json5")
		}

		client := fbgroup.NewClient(fbgroup.ClientOptions{
			SessionCookie: cfg.SessionCookie,
			UserAgent:     cfg.UserAgent,
			Proxy:         cfg.Proxy,
			Timeout:       time.Duration(cfg.RequestTimeout) * time.Second,
		})
		if *verbose {
			client.SetInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/fbgroup"))
		}

		var database *sql.DB
		if *scrapeDb != "" {
			database, err = sqliteutil.OpenDB(db.Schema, *scrapeDb)
			if err != nil {
				serviceutil.Fatal("failed to open db", err)
			}
			defer database.Close()
		}

		opts := harvest.HarvestOptions{
			MaxPostsPerGroup: cfg.MaxPostsPerGroup,
			PaginationLimit:  cfg.PaginationLimit,
		}
		if *scrapeMaxPosts > 0 {
			opts.MaxPostsPerGroup = *scrapeMaxPosts
		}
		if *scrapePages > 0 {
			opts.PaginationLimit = *scrapePages
		}

		t1 := time.Now()
		posts := harvest.NewService(client, database).
			HarvestAll(cmd.Context(), urls, opts)
		slog.Info("scraping complete", "posts", len(posts), "seconds", time.Since(t1).Seconds())

		outputDir := cfg.OutputDir
		if *scrapeOutputDir != "" {
			outputDir = *scrapeOutputDir
		}
		if outputDir == "" {
			outputDir = "data"
		}

		formats := cfg.OutputFormats
		if *scrapeFormats != "" {
			formats = strings.Split(*scrapeFormats, ",")
		}
		if len(formats) == 0 {
			formats = []string{"json", "csv", "xlsx"}
		}

		err = harvest.ExportPosts(cmd.Context(), posts, outputDir, "facebook_group_posts", formats)
		if err != nil {
			serviceutil.Fatal("failed to export posts", err)
		}
	},
}
