// Package analyzer resolves crawl signals into staleness verdicts. It builds
// the rubric prompt, asks the model once, and normalizes whatever comes back
// into a well-formed verdict. Evaluation always yields a complete verdict:
// when the page could not be fetched or the reply cannot be used, the verdict
// degrades to the maximum score so the page is flagged for review (fail-safe,
// not fail-silent).
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"govstale/models"
	"govstale/pkg/rubric"
)

// Oracle is the text-in/text-out capability that judges a page. Kept narrow
// so tests can swap in a deterministic stub.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Sentinel notes used when no usable model reply exists.
const (
	notesUnavailable = "unable to fetch content"
	notesNoReply     = "no valid reply from model"
)

// Analyzer turns one crawl signal into one verdict per call. It holds no
// state across evaluations.
type Analyzer struct {
	oracle Oracle
	logger *slog.Logger
	now    func() time.Time
}

// New returns an Analyzer backed by the given oracle.
func New(oracle Oracle, logger *slog.Logger) (*Analyzer, error) {
	if oracle == nil {
		return nil, errors.New("analyzer: oracle is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		oracle: oracle,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Analyze evaluates one page. The oracle is invoked at most once; there are
// no retries. Analyze never returns an error: a failed call or unusable reply
// degrades to score 100 with a diagnostic note.
func (a *Analyzer) Analyze(ctx context.Context, signal models.CrawlSignal) models.Verdict {
	brokenLinks := models.RenderBrokenLinks(signal.LinkStatus)

	if signal.HTML == "" {
		a.logger.Warn("page has no content, skipping model call", "url", signal.URL)
		return a.assemble(signal, models.ScoreMax, notesUnavailable, brokenLinks)
	}

	prompt := rubric.Build(signal, a.now())

	reply, err := a.oracle.Complete(ctx, prompt)
	if err != nil {
		a.logger.Error("model call failed", "url", signal.URL, "error", err)
		return a.assemble(signal, models.ScoreMax, fmt.Sprintf("model call failed: %v", err), brokenLinks)
	}

	score, notes, err := parseReply(reply)
	if err != nil {
		a.logger.Error("model reply unusable", "url", signal.URL, "error", err)
		return a.assemble(signal, models.ScoreMax, fmt.Sprintf("failed to parse model reply: %v", err), brokenLinks)
	}

	return a.assemble(signal, score, notes, brokenLinks)
}

// assemble builds the final verdict. Score is clamped and the status derived
// from it; url and last-updated are copied from the signal verbatim.
func (a *Analyzer) assemble(signal models.CrawlSignal, score int, notes, brokenLinks string) models.Verdict {
	score = models.ClampScore(score)
	return models.Verdict{
		URL:         signal.URL,
		Status:      models.StatusForScore(score),
		LastUpdated: signal.LastUpdated,
		Score:       score,
		Notes:       notes,
		BrokenLinks: brokenLinks,
	}
}
