package help

const ColdstartYAML = `# govstale Quick Start

verdict_statuses:
  normal: "Score 0-49, content looks current"
  suspect: "Score 50-79, aging content worth a review"
  outdated: "Score 80-100, stale or unreachable content"

commands:
  basic_audit: |
    govstale audit --urls "https://www.moda.gov.tw"

  multiple_urls: |
    govstale audit --urls "https://www.moda.gov.tw,https://example.gov"

  preview_prompt: |
    govstale audit --urls "https://example.gov" --dry-run

  signals_only: |
    govstale crawl --urls "https://example.gov"

  yaml_output: |
    govstale audit --urls "https://example.gov" --format yaml

  skip_cache: |
    govstale audit --urls "https://example.gov" --force-fetch

  list_tracked_urls: |
    govstale db urls

  fetch_history: |
    govstale db history 3
    govstale db history https://example.gov --limit 5

  stored_markup: |
    govstale db raw 3

environment:
  GEMINI_API_KEY: "Required for audit (not for crawl or --dry-run)"

flags:
  urls: "Comma-separated page URLs (required)"
  model: "Gemini model name"
  timeout: "Per-request timeout, e.g. 15s (default)"
  max-links: "Links probed per page (default 10)"
  max-age: "Artifact freshness window, e.g. 24h (default); 0 disables reuse"
  force-fetch: "Ignore stored artifacts, always refetch"
  output-dir: "Artifact store location (default govstale-artifacts)"
  format: "json (default) or yaml"
  quiet: "Errors only on stderr"
  dry-run: "Print prompts instead of calling the model"

key_files:
  - "govstale-artifacts/{host-path}-{hash}/raw.html (stored page markup)"
  - "govstale.db (URL and fetch bookkeeping, next to the binary)"

scoring_signals:
  - "Declared last-updated date (meta tags, <time>, visible text, CJK formats)"
  - "Broken links among probed same-host and outbound links"
  - "Page language and domain type feed the prompt, not the score directly"

audit_invariants:
  - "Every URL gets a verdict, even when the fetch fails (score 100, outdated)"
  - "URLs are processed one at a time, results keep input order"
  - "Fresh artifacts are reused instead of refetching (see --max-age)"
  - "Scores and verdicts are never stored; every run re-evaluates"

error_behavior:
  - "Missing GEMINI_API_KEY: exit 2 before any page is evaluated"
  - "Malformed URLs: fail fast before fetching"
  - "Unreachable pages: verdict degrades to outdated, run continues"
  - "Exit codes: 0=success, 1=partial failure, 2=complete failure"
`
