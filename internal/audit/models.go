package audit

import (
	"govstale/models"
)

// Result holds the outcome of one processed URL.
type Result struct {
	URL     string
	Signal  models.CrawlSignal
	Verdict models.Verdict
	Info    models.PageInfo
	Prompt  string
	Err     error
	ErrType string
}

// ResultOutput is the structured output for one audited URL.
type ResultOutput struct {
	Verdict   models.Verdict  `json:"verdict" yaml:"verdict"`
	Page      models.PageInfo `json:"page" yaml:"page"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// PromptOutput is the dry-run output for one URL: the prompt that would have
// been sent, with no verdict. An unfetchable page has no prompt at all.
type PromptOutput struct {
	URL       string          `json:"url" yaml:"url"`
	Prompt    string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Page      models.PageInfo `json:"page" yaml:"page"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// SignalOutput is the crawl-only output for one URL. Markup is elided to its
// byte count (in page); the full page lands in the artifact store.
type SignalOutput struct {
	URL         string          `json:"url" yaml:"url"`
	LastUpdated string          `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	LinkStatus  map[string]int  `json:"link_status,omitempty" yaml:"link_status,omitempty"`
	Page        models.PageInfo `json:"page" yaml:"page"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType   string          `json:"error_type,omitempty" yaml:"error_type,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string      `json:"status" yaml:"status"`
	Results interface{} `json:"results" yaml:"results"`
	Stats   Stats       `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int     `json:"total_urls" yaml:"total_urls"`
	Successful       int     `json:"successful" yaml:"successful"`
	Failed           int     `json:"failed" yaml:"failed"`
	Normal           int     `json:"normal" yaml:"normal"`
	Suspect          int     `json:"suspect" yaml:"suspect"`
	Outdated         int     `json:"outdated" yaml:"outdated"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}
