package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "govstale/pkg/db"
)

// UrlsAction lists every URL the audit has touched, latest fetch included.
func UrlsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	urls, err := database.ListURLs()
	if err != nil {
		return fmt.Errorf("failed to list URLs: %w", err)
	}

	if len(urls) == 0 {
		fmt.Println("No URLs tracked yet")
		fmt.Printf("\nTip: Run 'govstale audit --urls \"...\"' first\n")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-60s %-8s %-20s %-15s\n",
		"ID", "URL", "Type", "Last Seen", "Last Fetch")
	fmt.Println(strings.Repeat("-", 115))

	// Print each URL
	for _, u := range urls {
		fmt.Printf("%-6d %-60s %-8s %-20s %-15s\n",
			u.URLID,
			u.URL,
			u.DomainType,
			u.LastSeen.Format("2006-01-02 15:04:05"),
			describeLastFetch(u),
		)
	}

	fmt.Printf("\nTotal: %d URLs\n", len(urls))
	fmt.Printf("\nTip: Use 'govstale db history <id>' to see the fetch log\n")

	return nil
}

// HistoryAction prints the fetch log for one URL, newest first.
func HistoryAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL ID or URL required\nUsage: govstale db history <url_id_or_url>\nExample: govstale db history 3 OR govstale db history https://example.gov")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	pageURL, err := ResolveURLFromIDOrURL(c.Args().First(), database)
	if err != nil {
		return err
	}
	urlID, err := database.GetURLID(pageURL)
	if err != nil {
		return fmt.Errorf("URL not found in database: %s\nNote: Only audited URLs are tracked", pageURL)
	}

	accesses, err := database.ListAccesses(urlID, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list accesses: %w", err)
	}

	if len(accesses) == 0 {
		fmt.Printf("No fetches recorded for %s\n", pageURL)
		return nil
	}

	fmt.Printf("[#%d] %s\n", urlID, pageURL)
	fmt.Println(strings.Repeat("=", 60))
	for i, a := range accesses {
		outcome := "ok"
		if !a.Success {
			outcome = "failed"
			if a.ErrorType != "" {
				outcome = fmt.Sprintf("failed (%s)", a.ErrorType)
			}
		}
		fmt.Printf("%2d. %s  status:%-4d %s\n",
			i+1, a.AccessedAt.Format("2006-01-02 15:04:05"), a.StatusCode, outcome)
	}
	fmt.Printf("\nTotal: %d fetches\n", len(accesses))

	return nil
}

// RawAction prints the stored markup for a URL by ID or URL.
func RawAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL ID or URL required\nUsage: govstale db raw <url_id_or_url>\nExample: govstale db raw 3 OR govstale db raw 3,4,5 OR govstale db raw https://example.gov")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	arg := c.Args().First()

	// Check if argument contains comma (batch mode)
	if strings.Contains(arg, ",") {
		for i, id := range strings.Split(arg, ",") {
			data, err := readRawArtifact(database, strings.TrimSpace(id))
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Print("\n<!-- ===== Next URL ===== -->\n\n")
			}
			fmt.Print(data)
		}
		return nil
	}

	data, err := readRawArtifact(database, arg)
	if err != nil {
		return err
	}
	fmt.Print(data)
	return nil
}

func FindURLAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL required\nUsage: govstale db find-url <url>\nExample: govstale db find-url https://example.gov")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	url := c.Args().First()
	urlID, err := database.GetURLID(url)
	if err != nil {
		return fmt.Errorf("URL not found in database: %s\nNote: Only audited URLs are tracked", url)
	}

	fmt.Printf("[#%d] %s\n", urlID, url)
	return nil
}

// readRawArtifact resolves one ID-or-URL argument to its stored page markup.
func readRawArtifact(database *dbpkg.DB, arg string) (string, error) {
	pageURL, err := ResolveURLFromIDOrURL(arg, database)
	if err != nil {
		return "", err
	}
	urlID, err := database.GetURLID(pageURL)
	if err != nil {
		return "", fmt.Errorf("URL not found in database: %s\nNote: Only audited URLs are tracked", pageURL)
	}

	filePath, err := database.GetArtifactPath(urlID, dbpkg.ArtifactRawHTML)
	if err != nil {
		return "", fmt.Errorf("no stored markup for URL: %s\n\nThis URL may not have been fetched yet. Try:\n  govstale crawl --urls \"%s\"", pageURL, pageURL)
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("artifact file missing: %s\nThe store may have been cleaned. Refetch with:\n  govstale crawl --force-fetch --urls \"%s\"", filePath, pageURL)
		}
		return "", fmt.Errorf("failed to read artifact: %w", err)
	}
	return string(data), nil
}

// describeLastFetch renders the most recent fetch outcome for the urls table.
func describeLastFetch(u dbpkg.URLRecord) string {
	switch {
	case !u.LastStatus.Valid:
		return "never"
	case u.LastOK.Valid && u.LastOK.Bool:
		return fmt.Sprintf("ok (%d)", u.LastStatus.Int64)
	case u.LastStatus.Int64 == 0:
		return "failed"
	default:
		return fmt.Sprintf("failed (%d)", u.LastStatus.Int64)
	}
}
