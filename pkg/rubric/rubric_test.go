package rubric

import (
	"strings"
	"testing"
	"time"

	"govstale/models"
)

var testDay = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

func TestBuild_EmbedsSignalFields(t *testing.T) {
	signal := models.CrawlSignal{
		URL:         "https://example.gov.tw/news",
		HTML:        "<html><body>hello</body></html>",
		LastUpdated: "2019-01-01",
		LinkStatus: map[string]int{
			"https://example.gov.tw/ok":   200,
			"https://example.gov.tw/gone": 404,
		},
	}

	prompt := Build(signal, testDay)

	for _, want := range []string{
		"Today's date: 2026-08-25",
		"Page URL: https://example.gov.tw/news",
		"Last updated: 2019-01-01",
		"https://example.gov.tw/gone (status: 404)",
		"<html><body>hello</body></html>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "https://example.gov.tw/ok (status") {
		t.Errorf("prompt lists a healthy link as broken")
	}
}

func TestBuild_EmptyFieldMarkers(t *testing.T) {
	signal := models.CrawlSignal{
		URL:  "https://example.gov",
		HTML: "<html></html>",
	}

	prompt := Build(signal, testDay)

	if !strings.Contains(prompt, "Last updated: not found") {
		t.Errorf("prompt missing the not-found marker for an empty date")
	}
	if !strings.Contains(prompt, "Broken links: none") {
		t.Errorf("prompt missing the none marker for empty broken links")
	}
}

func TestBuild_RubricDimensions(t *testing.T) {
	prompt := Build(models.CrawlSignal{URL: "https://x.gov", HTML: "<p>x</p>"}, testDay)

	for _, want := range []string{
		"A. Outdated components (0-40 points):",
		"B. Outdated content (0-40 points):",
		"C. Staleness by last update (0-20 points):",
		"D. Broken-link penalty (0-5 points):",
		"jQuery < 3.0, React < 16.8 and Vue < 2.6",
		"jQuery 1.x",
		"403 may be an access check",
		"\"score\":",
		"\"notes\":",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing rubric text %q", want)
		}
	}
}

func TestBuild_TruncatesHTML(t *testing.T) {
	html := strings.Repeat("a", MaxHTMLChars) + "SENTINEL"
	prompt := Build(models.CrawlSignal{URL: "https://x.gov", HTML: html}, testDay)

	if strings.Contains(prompt, "SENTINEL") {
		t.Errorf("prompt contains markup beyond the %d character cut", MaxHTMLChars)
	}
	if !strings.Contains(prompt, strings.Repeat("a", MaxHTMLChars)) {
		t.Errorf("prompt missing the truncated markup prefix")
	}
}

func TestBuild_TruncatesByRune(t *testing.T) {
	// Multibyte text must never be cut mid-character.
	html := strings.Repeat("更", MaxHTMLChars+10)
	prompt := Build(models.CrawlSignal{URL: "https://x.gov.tw", HTML: html}, testDay)

	if strings.Contains(prompt, "�") {
		t.Errorf("truncation produced a broken rune")
	}
	if got := strings.Count(prompt, "更"); got != MaxHTMLChars {
		t.Errorf("expected %d runes of markup, got %d", MaxHTMLChars, got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	signal := models.CrawlSignal{
		URL:         "https://example.gov",
		HTML:        "<html>body</html>",
		LastUpdated: "2020-05-01",
		LinkStatus: map[string]int{
			"https://a.gov": 500,
			"https://b.gov": 404,
			"https://c.gov": 200,
		},
	}

	first := Build(signal, testDay)
	for i := 0; i < 10; i++ {
		if got := Build(signal, testDay); got != first {
			t.Fatalf("prompt is not deterministic for identical input")
		}
	}
}
