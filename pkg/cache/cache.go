package cache

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	DefaultBaseDir = "govstale-artifacts"

	rawArtifact = "raw.html"
	slugMaxLen  = 64
)

// Store caches fetched page markup on disk so repeated audits within the
// freshness window skip the network fetch.
type Store struct {
	baseDir string
	maxAge  time.Duration
}

// New creates an artifact store rooted at baseDir, creating it if needed.
// maxAge is the freshness window; zero or negative means cached artifacts
// are never served.
func New(baseDir string, maxAge time.Duration) (*Store, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Store{baseDir: baseDir, maxAge: maxAge}, nil
}

// MaxAge returns the configured freshness window.
func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// Dir returns the artifact directory for a URL: <base>/<slug>-<hash>.
// The slug keeps listings readable; the hash keeps keys collision-free.
func (s *Store) Dir(rawURL string) (string, error) {
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s", slugify(rawURL), shortHash(normalized))
	return filepath.Join(s.baseDir, name), nil
}

// Path returns the raw-HTML artifact path for a URL.
func (s *Store) Path(rawURL string) (string, error) {
	dir, err := s.Dir(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, rawArtifact), nil
}

// Get retrieves cached markup for a URL. fresh is true only when the
// artifact exists and its mtime is within the freshness window.
func (s *Store) Get(rawURL string) ([]byte, bool, error) {
	filePath, err := s.Path(rawURL)
	if err != nil {
		return nil, false, err
	}
	if s.maxAge <= 0 {
		return nil, false, nil
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat artifact: %w", err)
	}
	if time.Since(info.ModTime()) > s.maxAge {
		return nil, false, nil
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, true, nil
}

// Put stores page markup and returns the artifact path. The write goes
// through a temp file and rename so an interrupted run never leaves a
// truncated artifact that a later audit would trust.
func (s *Store) Put(rawURL string, data []byte) (string, error) {
	dir, err := s.Dir(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	filePath := filepath.Join(dir, rawArtifact)
	tmp, err := os.CreateTemp(dir, rawArtifact+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store artifact: %w", err)
	}
	return filePath, nil
}

// normalizeURL canonicalizes a URL for hashing: lowercased host, query
// parameters sorted, fragment stripped. The scheme is kept — http and https
// variants of a page can serve different content and must not share a slot.
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	u.Host = strings.ToLower(u.Host)

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sorted := url.Values{}
		for _, k := range keys {
			for _, v := range params[k] {
				sorted.Add(k, v)
			}
		}
		u.RawQuery = sorted.Encode()
	}

	u.Fragment = ""
	return u.String(), nil
}

// shortHash returns the first 8 hex chars of the normalized URL's sha256.
func shortHash(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum[:4])
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a filesystem-safe, human-readable name from the URL's
// host and path. The scheme and query are left to the hash.
func slugify(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		safe := slugCleaner.ReplaceAllString(strings.ToLower(rawURL), "-")
		return capSlug(strings.Trim(safe, "-"))
	}

	combined := strings.ToLower(u.Host + "/" + strings.TrimPrefix(u.Path, "/"))
	slug := strings.Trim(slugCleaner.ReplaceAllString(combined, "-"), "-")
	if slug == "" {
		slug = "page"
	}
	return capSlug(slug)
}

func capSlug(slug string) string {
	if len(slug) > slugMaxLen {
		slug = strings.Trim(slug[:slugMaxLen], "-")
	}
	return slug
}
