package audit

import (
	"context"
	"log/slog"
	"time"

	"govstale/internal/common"
	"govstale/models"
	"govstale/pkg/analyzer"
	"govstale/pkg/cache"
	"govstale/pkg/crawler"
	"govstale/pkg/db"
	"govstale/pkg/rubric"
)

// pipeline bundles the collaborators one run needs.
type pipeline struct {
	logger   *slog.Logger
	crawler  *crawler.Crawler
	analyzer *analyzer.Analyzer // nil in dry runs
	store    *cache.Store
	database *db.DB
}

// run audits each URL in turn. Pages are processed sequentially: a run
// targets a handful of URLs, and sequential keeps request load polite and
// output order stable.
func (p *pipeline) run(ctx context.Context, cfg *models.AuditConfig) []Result {
	results := make([]Result, 0, len(cfg.URLs))
	for _, pageURL := range cfg.URLs {
		results = append(results, p.auditOne(ctx, cfg, pageURL))
	}
	return results
}

// crawl gathers signals for each URL without scoring them.
func (p *pipeline) crawl(ctx context.Context, cfg *models.AuditConfig) []Result {
	results := make([]Result, 0, len(cfg.URLs))
	for _, pageURL := range cfg.URLs {
		result := Result{URL: pageURL}
		result.Signal, result.Info, result.Err = p.acquire(ctx, pageURL)
		if result.Err != nil {
			result.ErrType = "fetch_error"
		}
		results = append(results, result)
	}
	return results
}

func (p *pipeline) auditOne(ctx context.Context, cfg *models.AuditConfig, pageURL string) Result {
	result := Result{URL: pageURL}

	signal, info, fetchErr := p.acquire(ctx, pageURL)
	result.Signal = signal
	result.Info = info
	if fetchErr != nil {
		result.Err = fetchErr
		result.ErrType = "fetch_error"
	}

	if cfg.DryRun {
		if signal.HTML != "" {
			result.Prompt = rubric.Build(signal, time.Now())
		}
		return result
	}

	result.Verdict = p.analyzer.Analyze(ctx, signal)
	return result
}

// acquire obtains the page markup, from the artifact store when fresh and
// otherwise over the network, and derives the crawl signal. A non-nil error
// reports a failed fetch; the returned signal is still usable (empty HTML).
func (p *pipeline) acquire(ctx context.Context, pageURL string) (models.CrawlSignal, models.PageInfo, error) {
	if data, fresh, err := p.store.Get(pageURL); err != nil {
		p.logger.Warn("artifact lookup failed, refetching", "url", pageURL, "error", err)
	} else if fresh {
		p.logger.Info("using cached page", "url", pageURL, "bytes", len(data))
		signal, info := p.crawler.Collect(ctx, pageURL, data, models.PageInfo{FromCache: true})
		p.trackURL(pageURL, info)
		return signal, info, nil
	}

	body, info, fetchErr := p.crawler.FetchPage(ctx, pageURL)
	if fetchErr != nil {
		if urlID, ok := p.trackURL(pageURL, info); ok {
			p.recordAccess(urlID, info.StatusCode, "fetch_error", false)
		}
		return models.CrawlSignal{URL: pageURL}, info, fetchErr
	}

	signal, info := p.crawler.Collect(ctx, pageURL, body, info)

	urlID, tracked := p.trackURL(pageURL, info)
	if tracked {
		p.recordAccess(urlID, info.StatusCode, "", true)
	}

	if path, err := p.store.Put(pageURL, body); err != nil {
		p.logger.Warn("failed to store artifact", "url", pageURL, "error", err)
	} else if tracked {
		hash := common.ContentHash(body)
		if _, err := p.database.InsertArtifact(urlID, db.ArtifactRawHTML, hash, path, int64(len(body))); err != nil {
			p.logger.Warn("failed to record artifact", "url", pageURL, "error", err)
		}
	}

	return signal, info, nil
}

// trackURL upserts the URL row and refreshes last_seen. Bookkeeping failures
// are logged, not fatal; the audit result does not depend on them.
func (p *pipeline) trackURL(pageURL string, info models.PageInfo) (int64, bool) {
	urlID, err := p.database.InsertURL(pageURL, info.DomainType)
	if err != nil {
		p.logger.Warn("failed to track URL", "url", pageURL, "error", err)
		return 0, false
	}
	return urlID, true
}

func (p *pipeline) recordAccess(urlID int64, statusCode int, errType string, success bool) {
	if err := p.database.RecordAccess(urlID, statusCode, errType, success); err != nil {
		p.logger.Warn("failed to record access", "url_id", urlID, "error", err)
	}
}
