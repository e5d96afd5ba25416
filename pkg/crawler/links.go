package crawler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// probeWorkers bounds concurrent link probes for a single page.
const probeWorkers = 4

// extractLinks pulls anchor targets from the document, resolved against the
// page URL, http(s) only, deduplicated, same-host links first. Returns the
// capped list and the total found before capping.
func extractLinks(doc *goquery.Document, base *url.URL, max int) ([]string, int) {
	if base == nil {
		return nil, 0
	}

	seen := make(map[string]bool)
	var sameHost, otherHost []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""

		link := abs.String()
		if link == base.String() || seen[link] {
			return
		}
		seen[link] = true

		if abs.Host == base.Host {
			sameHost = append(sameHost, link)
		} else {
			otherHost = append(otherHost, link)
		}
	})

	ordered := append(sameHost, otherHost...)
	total := len(ordered)
	if max > 0 && len(ordered) > max {
		ordered = ordered[:max]
	}
	return ordered, total
}

// probeLinks records the HTTP status of each link. Probes within one page
// run on a small worker pool; evaluations across pages stay sequential.
func (c *Crawler) probeLinks(ctx context.Context, links []string) map[string]int {
	if len(links) == 0 {
		return nil
	}

	type probe struct {
		link string
		code int
	}

	jobs := make(chan string, len(links))
	results := make(chan probe, len(links))

	workers := probeWorkers
	if len(links) < workers {
		workers = len(links)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range jobs {
				results <- probe{link: link, code: c.probeLink(ctx, link)}
			}
		}()
	}

	for _, link := range links {
		jobs <- link
	}
	close(jobs)

	wg.Wait()
	close(results)

	statuses := make(map[string]int, len(links))
	for p := range results {
		statuses[p.link] = p.code
	}
	return statuses
}

// probeLink checks one link. HEAD first; GET when the server rejects HEAD.
// Unreachable links record status 0.
func (c *Crawler) probeLink(ctx context.Context, link string) int {
	code, err := c.requestStatus(ctx, http.MethodHead, link)
	if err == nil && code != http.StatusMethodNotAllowed && code != http.StatusNotImplemented {
		return code
	}

	code, err = c.requestStatus(ctx, http.MethodGet, link)
	if err != nil {
		return 0
	}
	return code
}

func (c *Crawler) requestStatus(ctx context.Context, method, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
