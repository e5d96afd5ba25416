package models

// CrawlSignal bundles the facts collected about one page: the raw markup,
// the best-effort last-updated date, and the health of its outbound links.
// It is the input to the scoring pipeline and is never mutated by it.
type CrawlSignal struct {
	URL string `json:"url"`

	// HTML is the raw page markup. Empty means the page could not be
	// fetched; the analyzer short-circuits to a sentinel verdict.
	HTML string `json:"html,omitempty"`

	// LastUpdated is the extracted last-updated date (YYYY-MM-DD when the
	// crawler could normalize it). Empty when nothing was found.
	LastUpdated string `json:"last_updated,omitempty"`

	// LinkStatus maps each probed link URL to its HTTP status code.
	// Status 0 means the link was unreachable.
	LinkStatus map[string]int `json:"link_status,omitempty"`
}

// PageInfo carries crawl metadata that sits outside the scoring core.
// Used for reporting only; the analyzer never reads it.
type PageInfo struct {
	FinalURL    string `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	StatusCode  int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	DomainType  string `json:"domain_type,omitempty" yaml:"domain_type,omitempty"`
	LinksFound  int    `json:"links_found,omitempty" yaml:"links_found,omitempty"`
	LinksProbed int    `json:"links_probed,omitempty" yaml:"links_probed,omitempty"`
	HTMLBytes   int    `json:"html_bytes,omitempty" yaml:"html_bytes,omitempty"`
	FromCache   bool   `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
}
