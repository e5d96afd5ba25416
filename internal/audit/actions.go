package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"govstale/internal/common"
	"govstale/models"
	"govstale/pkg/analyzer"
	"govstale/pkg/cache"
	"govstale/pkg/crawler"
	"govstale/pkg/db"
	"govstale/pkg/gemini"
)

// AuditAction runs the full pipeline: crawl each URL, score it against the
// staleness rubric, and print one verdict per page.
func AuditAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg := buildConfig(c, logger)
	ctx := context.Background()

	p, err := buildPipeline(logger, cfg)
	if err != nil {
		logger.Error("failed to set up audit", "error", err)
		os.Exit(2)
	}
	defer p.database.Close()

	if !cfg.DryRun {
		client, err := gemini.NewClient(ctx, cfg.Model)
		if err != nil {
			logger.Error("failed to initialize model client", "error", err)
			os.Exit(2)
		}
		defer client.Close()

		p.analyzer, err = analyzer.New(client, logger)
		if err != nil {
			logger.Error("failed to initialize analyzer", "error", err)
			os.Exit(2)
		}
		logger.Info("model ready", "model", client.Model())
	}

	results := p.run(ctx, cfg)

	stats := Stats{
		TotalURLs:        len(cfg.URLs),
		TotalTimeSeconds: time.Since(startTime).Seconds(),
	}

	if cfg.DryRun {
		prompts := make([]PromptOutput, 0, len(results))
		for _, r := range results {
			out := PromptOutput{URL: r.URL, Prompt: r.Prompt, Page: r.Info}
			if r.Err != nil {
				stats.Failed++
				out.Error = r.Err.Error()
				out.ErrorType = r.ErrType
			} else {
				stats.Successful++
			}
			prompts = append(prompts, out)
		}
		return emit(c, logger, prompts, stats)
	}

	outputs := make([]ResultOutput, 0, len(results))
	for _, r := range results {
		out := ResultOutput{Verdict: r.Verdict, Page: r.Info}
		if r.Err != nil {
			stats.Failed++
			out.Error = r.Err.Error()
			out.ErrorType = r.ErrType
		} else {
			stats.Successful++
		}
		switch r.Verdict.Status {
		case models.StatusNormal:
			stats.Normal++
		case models.StatusSuspect:
			stats.Suspect++
		case models.StatusOutdated:
			stats.Outdated++
		}
		outputs = append(outputs, out)
	}
	return emit(c, logger, outputs, stats)
}

// CrawlAction gathers staleness signals for each URL without calling the
// model. Useful for inspecting what the audit would score.
func CrawlAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg := buildConfig(c, logger)

	p, err := buildPipeline(logger, cfg)
	if err != nil {
		logger.Error("failed to set up crawl", "error", err)
		os.Exit(2)
	}
	defer p.database.Close()

	results := p.crawl(context.Background(), cfg)

	stats := Stats{
		TotalURLs:        len(cfg.URLs),
		TotalTimeSeconds: time.Since(startTime).Seconds(),
	}
	outputs := make([]SignalOutput, 0, len(results))
	for _, r := range results {
		out := SignalOutput{
			URL:         r.URL,
			LastUpdated: r.Signal.LastUpdated,
			LinkStatus:  r.Signal.LinkStatus,
			Page:        r.Info,
		}
		if r.Err != nil {
			stats.Failed++
			out.Error = r.Err.Error()
			out.ErrorType = r.ErrType
		} else {
			stats.Successful++
		}
		outputs = append(outputs, out)
	}
	return emit(c, logger, outputs, stats)
}

// buildConfig parses the flags shared by audit and crawl. Invalid input is
// fatal: bad durations and malformed URLs exit before any network traffic.
func buildConfig(c *cli.Context, logger *slog.Logger) *models.AuditConfig {
	var maxAge time.Duration
	var err error
	if c.Bool("force-fetch") {
		maxAge = 0
	} else {
		maxAge, err = time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err, "value", c.String("max-age"))
			os.Exit(2)
		}
	}

	timeout, err := time.ParseDuration(c.String("timeout"))
	if err != nil {
		logger.Error("invalid timeout duration", "error", err, "value", c.String("timeout"))
		os.Exit(2)
	}

	urls := []string{}
	if c.IsSet("urls") {
		urls = strings.Split(c.String("urls"), ",")
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  govstale audit --urls "https://www.moda.gov.tw,https://example.gov"`)
		fmt.Fprintln(os.Stderr, `  govstale crawl --urls "https://example.gov"   # signals only, no scoring`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: govstale audit --help")
		os.Exit(1)
	}

	sanitized, invalid := common.SanitizeAndValidateURLs(urls)
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d URL(s) are malformed (even after cleanup):\n", len(invalid))
		for _, badURL := range invalid {
			fmt.Fprintf(os.Stderr, "  - %s\n", badURL)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Note: URLs are auto-cleaned (whitespace/quotes trimmed, trailing punctuation removed, markdown links unwrapped)")
		fmt.Fprintln(os.Stderr, "      Spaces inside a URL must be pre-encoded as %20.")
		os.Exit(1)
	}

	return &models.AuditConfig{
		URLs:      sanitized,
		Model:     c.String("model"),
		Timeout:   timeout,
		MaxLinks:  c.Int("max-links"),
		MaxAge:    maxAge,
		OutputDir: c.String("output-dir"),
		DryRun:    c.Bool("dry-run"),
	}
}

func buildPipeline(logger *slog.Logger, cfg *models.AuditConfig) (*pipeline, error) {
	store, err := cache.New(cfg.OutputDir, cfg.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
	}
	database, err := db.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &pipeline{
		logger:   logger,
		crawler:  crawler.New(logger, cfg.Timeout, cfg.MaxLinks),
		store:    store,
		database: database,
	}, nil
}

// emit prints the final document to stdout and converts the run outcome into
// the process exit code: 0 all good, 1 partial failure, 2 total failure.
func emit(c *cli.Context, logger *slog.Logger, results interface{}, stats Stats) error {
	finalOutput := &FinalOutput{Results: results, Stats: stats}
	switch {
	case stats.TotalURLs > 0 && stats.Failed == stats.TotalURLs:
		finalOutput.Status = "failure"
	case stats.Failed > 0:
		finalOutput.Status = "partial_failure"
	default:
		finalOutput.Status = "success"
	}

	var outputData []byte
	var marshalErr error
	if strings.ToLower(c.String("format")) == "yaml" {
		outputData, marshalErr = yaml.Marshal(finalOutput)
	} else {
		outputData, marshalErr = json.MarshalIndent(finalOutput, "", "  ")
	}
	if marshalErr != nil {
		logger.Error("failed to marshal final output", "error", marshalErr)
		os.Exit(2)
	}

	fmt.Println(string(outputData))

	if stats.TotalURLs > 0 && stats.Failed == stats.TotalURLs {
		os.Exit(2)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
