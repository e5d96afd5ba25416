// Package rubric renders crawl signals into the fixed scoring prompt sent to
// the model. Building a prompt is a pure string transform with no failure
// mode; all numeric policy lives in named constants so the rubric can be
// tuned without touching the analyzer.
package rubric

import (
	"fmt"
	"strings"
	"time"

	"govstale/models"
)

// Point budgets for the four scoring dimensions. They sum to 105 but the
// model is instructed to keep the total within 0-100.
const (
	ComponentsMax = 40 // outdated JS libraries
	ContentMax    = 40 // explicitly stale page content
	LastUpdateMax = 20 // age of the last-updated date
	BrokenLinkMax = 5  // surcharge for dead links
)

// MaxHTMLChars bounds how much markup is embedded in the prompt. Truncation
// is intentional: it caps prompt size and cost regardless of page length.
const MaxHTMLChars = 2000

// Markers used when a signal field is empty.
const (
	markerNotFound = "not found"
	markerNone     = "none"
)

// Build renders the scoring prompt for one page. The caller supplies the
// clock so tests can pin the date.
func Build(signal models.CrawlSignal, today time.Time) string {
	brokenLinks := models.RenderBrokenLinks(signal.LinkStatus)
	if brokenLinks == "" {
		brokenLinks = markerNone
	}

	lastUpdated := signal.LastUpdated
	if lastUpdated == "" {
		lastUpdated = markerNotFound
	}

	var b strings.Builder

	b.WriteString("You are a website health inspector. Based on the HTML content and the crawl\n")
	b.WriteString("findings below, evaluate whether this government web page is outdated.\n\n")

	b.WriteString("Reference information:\n")
	fmt.Fprintf(&b, "- Today's date: %s\n", today.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Page URL: %s\n", signal.URL)
	fmt.Fprintf(&b, "- Last updated: %s\n", lastUpdated)
	fmt.Fprintf(&b, "- Broken links: %s\n\n", brokenLinks)

	b.WriteString("Scoring guide (follow strictly; 100 points total):\n")
	b.WriteString("Score each of the three main dimensions within its range. Higher scores mean\n")
	b.WriteString("the dimension is more outdated or the problem more severe. Add the broken-link\n")
	b.WriteString("surcharge on top.\n\n")

	fmt.Fprintf(&b, "A. Outdated components (0-%d points):\n", ComponentsMax)
	b.WriteString("- Baseline: jQuery < 3.0, React < 16.8 and Vue < 2.6 count as outdated.\n")
	b.WriteString("- 0: no libraries detected, or every detected library is modern.\n")
	b.WriteString("- 1-20: one outdated library in use.\n")
	b.WriteString("- 21-40: several outdated libraries, or an extremely old version (e.g. jQuery 1.x).\n\n")

	fmt.Fprintf(&b, "B. Outdated content (0-%d points):\n", ContentMax)
	b.WriteString("- 0: content is current and references recent events or information.\n")
	b.WriteString("- 1-20: content looks rarely updated (generic boilerplate) but carries no explicit stale marker.\n")
	b.WriteString("- 21-40: content has explicit stale markers (events, news or regulations from years ago with no sign of refresh).\n\n")

	fmt.Fprintf(&b, "C. Staleness by last update (0-%d points):\n", LastUpdateMax)
	b.WriteString("- 0: last updated within one year.\n")
	b.WriteString("- 1-10: last updated 1-2 years ago.\n")
	b.WriteString("- 11-20: last updated more than 2 years ago.\n")
	b.WriteString("- Note: a missing last-updated date may just mean the crawler could not find one; score leniently.\n\n")

	fmt.Fprintf(&b, "D. Broken-link penalty (0-%d points):\n", BrokenLinkMax)
	b.WriteString("- 0: no broken links.\n")
	b.WriteString("- 1-2: 1-4 broken links.\n")
	b.WriteString("- 3-5: 5 or more broken links.\n")
	b.WriteString("- Note: a 403 may be an access check or verification redirect and may be ignored.\n\n")

	b.WriteString("Your task:\n")
	b.WriteString("Weigh all of the information above and reply with your analysis in exactly the\n")
	b.WriteString("JSON format given at the end; any other response shape breaks the caller. In\n")
	b.WriteString("\"notes\", briefly summarize your key findings and the evidence behind them\n")
	b.WriteString("(for example: \"uses outdated jQuery 1.12.4, last updated three years ago,\n")
	b.WriteString("3 broken links found\").\n\n")

	fmt.Fprintf(&b, "HTML content (first %d characters):\n", MaxHTMLChars)
	b.WriteString("```html\n")
	b.WriteString(truncate(signal.HTML, MaxHTMLChars))
	b.WriteString("\n```\n\n")

	b.WriteString("Output requirement:\n")
	b.WriteString("Reply strictly in the following JSON format with no extra text or explanation:\n")
	b.WriteString("{\n")
	b.WriteString("  \"score\": <an integer 0-100; higher means more outdated>,\n")
	b.WriteString("  \"notes\": \"<a short summary of your findings; when broken links exist, name their full URLs>\"\n")
	b.WriteString("}\n")

	return b.String()
}

// truncate returns the first n characters of s. Character here means rune,
// not byte, so multibyte text is never cut mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
