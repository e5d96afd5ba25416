package models

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the qualitative staleness classification derived from a score.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusSuspect  Status = "suspect"
	StatusOutdated Status = "outdated"
)

// Thresholds that map a score to a status. Scores below ThresholdSuspect are
// normal, scores below ThresholdOutdated are suspect, everything else is
// outdated.
const (
	ThresholdSuspect  = 50
	ThresholdOutdated = 80
)

// ScoreMax is the fail-safe score: when the page cannot be fetched or the
// model reply cannot be parsed, the verdict defaults to fully outdated so
// the page is flagged for human review instead of passing silently.
const ScoreMax = 100

// Verdict is the final staleness assessment for one page. Constructed once
// per evaluation and never mutated afterwards.
type Verdict struct {
	URL         string `json:"url" yaml:"url"`
	Status      Status `json:"status" yaml:"status"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`

	// Score is in [0,100]; higher means more outdated.
	Score int `json:"score" yaml:"score"`

	// Notes is the model's rationale, or a failure explanation when the
	// reply could not be obtained or parsed.
	Notes string `json:"notes" yaml:"notes"`

	// BrokenLinks lists every probed link with a non-200 status, one per
	// line as "<url> (status: <code>)". Empty when all links were healthy.
	BrokenLinks string `json:"broken_links,omitempty" yaml:"broken_links,omitempty"`
}

// StatusForScore maps a score to its status. The mapping is the only way a
// status is ever assigned.
func StatusForScore(score int) Status {
	switch {
	case score < ThresholdSuspect:
		return StatusNormal
	case score < ThresholdOutdated:
		return StatusSuspect
	default:
		return StatusOutdated
	}
}

// ClampScore restricts a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// RenderBrokenLinks formats every link whose status code is not 200, one per
// line, sorted by link URL so repeated renders of the same map are identical.
func RenderBrokenLinks(linkStatus map[string]int) string {
	broken := make([]string, 0, len(linkStatus))
	for link, code := range linkStatus {
		if code != 200 {
			broken = append(broken, fmt.Sprintf("%s (status: %d)", link, code))
		}
	}
	sort.Strings(broken)
	return strings.Join(broken, "\n")
}
