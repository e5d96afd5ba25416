package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"govstale/internal/audit"
	"govstale/internal/db"
	"govstale/pkg/cache"
	"govstale/pkg/crawler"
	"govstale/pkg/gemini"
	"govstale/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "govstale",
		Usage: "Staleness audit for government websites",
		Commands: []*cli.Command{
			{
				Name:   "audit",
				Usage:  "Crawl pages and score their staleness with Gemini",
				Flags:  append(crawlFlags(), auditFlags()...),
				Action: audit.AuditAction,
			},
			{
				Name:   "crawl",
				Usage:  "Gather staleness signals without scoring",
				Flags:  crawlFlags(),
				Action: audit.CrawlAction,
			},
			{
				Name:  "db",
				Usage: "Inspect tracked URLs, fetch history and stored markup",
				Subcommands: []*cli.Command{
					{
						Name:   "urls",
						Usage:  "List all tracked URLs with their latest fetch",
						Action: db.UrlsAction,
					},
					{
						Name:      "history",
						Usage:     "Show the fetch log for a URL",
						ArgsUsage: "<url_id_or_url>",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Max entries to show (0 = all)",
							},
						},
						Action: db.HistoryAction,
					},
					{
						Name:      "raw",
						Usage:     "Print stored page markup",
						ArgsUsage: "<url_id_or_url>",
						Action:    db.RawAction,
					},
					{
						Name:      "find-url",
						Usage:     "Look up the ID of a tracked URL",
						ArgsUsage: "<url>",
						Action:    db.FindURLAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "Print a quick-start reference for new users",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// crawlFlags are shared by audit and crawl.
func crawlFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "urls",
			Usage: `Comma-separated page URLs, e.g. "https://www.moda.gov.tw,https://example.gov"`,
		},
		&cli.StringFlag{
			Name:  "timeout",
			Value: crawler.DefaultTimeout.String(),
			Usage: "Per-request timeout",
		},
		&cli.IntFlag{
			Name:  "max-links",
			Value: crawler.DefaultMaxLinks,
			Usage: "Links probed per page",
		},
		&cli.StringFlag{
			Name:  "max-age",
			Value: "24h",
			Usage: "Reuse stored artifacts younger than this (0 = always refetch)",
		},
		&cli.BoolFlag{
			Name:  "force-fetch",
			Usage: "Ignore stored artifacts and refetch",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Value: cache.DefaultBaseDir,
			Usage: "Artifact store directory",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "json",
			Usage: "Output format: json or yaml",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Log errors only",
		},
	}
}

// auditFlags extend crawlFlags for the scoring step.
func auditFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "model",
			Value: gemini.DefaultModel,
			Usage: "Gemini model name",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print prompts instead of calling the model",
		},
	}
}
