package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutGetRoundtrip(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	pageURL := "https://www.moda.gov.tw/press"
	data := []byte("<html><body>notice</body></html>")

	path, err := store.Put(pageURL, data)
	if err != nil {
		t.Fatal(err)
	}
	wantPath, err := store.Path(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	if path != wantPath {
		t.Errorf("Put stored at %q, Path reports %q", path, wantPath)
	}

	got, fresh, err := store.Get(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Fatal("expected a fresh artifact right after Put")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got %q, want %q", got, data)
	}

	if base := filepath.Base(path); base != "raw.html" {
		t.Errorf("artifact file = %q, want raw.html", base)
	}
	dirName := filepath.Base(filepath.Dir(path))
	if !strings.HasPrefix(dirName, "www-moda-gov-tw-press-") {
		t.Errorf("artifact dir = %q, want slug prefix www-moda-gov-tw-press-", dirName)
	}
	if hash := dirName[strings.LastIndex(dirName, "-")+1:]; len(hash) != 8 {
		t.Errorf("artifact dir hash = %q, want 8 hex chars", hash)
	}
}

func TestGetMiss(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	data, fresh, err := store.Get("https://example.gov/never-stored")
	if err != nil {
		t.Fatal(err)
	}
	if fresh || data != nil {
		t.Errorf("got (%q, %v), want a miss", data, fresh)
	}
}

func TestGetZeroMaxAgeNeverFresh(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	pageURL := "https://example.gov/page"
	if _, err := store.Put(pageURL, []byte("cached")); err != nil {
		t.Fatal(err)
	}

	_, fresh, err := store.Get(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("zero max age must force a refetch")
	}
}

func TestGetExpired(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	pageURL := "https://example.gov/page"
	path, err := store.Put(pageURL, []byte("stale copy"))
	if err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	_, fresh, err := store.Get(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("artifact older than max age reported fresh")
	}
}

func TestPutOverwrites(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	pageURL := "https://example.gov/page"
	if _, err := store.Put(pageURL, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Put(pageURL, []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, fresh, err := store.Get(pageURL)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh || string(got) != "second" {
		t.Errorf("got (%q, %v), want the overwritten artifact", got, fresh)
	}
}

func TestSchemeSeparatesArtifacts(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	httpDir, err := store.Dir("http://example.gov/p")
	if err != nil {
		t.Fatal(err)
	}
	httpsDir, err := store.Dir("https://example.gov/p")
	if err != nil {
		t.Fatal(err)
	}
	if httpDir == httpsDir {
		t.Errorf("http and https share artifact dir %q", httpDir)
	}
}

func TestNormalizeURL(t *testing.T) {
	a, err := normalizeURL("https://x.gov/p?b=2&a=1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := normalizeURL("https://x.gov/p?a=1&b=2")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("query order changed the key: %q vs %q", a, b)
	}

	c, err := normalizeURL("https://X.gov/p#section")
	if err != nil {
		t.Fatal(err)
	}
	if c != "https://x.gov/p" {
		t.Errorf("normalizeURL = %q, want https://x.gov/p", c)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{rawURL: "https://www.moda.gov.tw/Page/News", want: "www-moda-gov-tw-page-news"},
		{rawURL: "https://example.gov/", want: "example-gov"},
		{rawURL: "https://example.gov/path?q=ignored", want: "example-gov-path"},
		{rawURL: "not a url", want: "not-a-url"},
	}

	for _, tt := range tests {
		if got := slugify(tt.rawURL); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}

	long := "https://example.gov/" + strings.Repeat("very/long/segment/", 10)
	if got := slugify(long); len(got) > slugMaxLen {
		t.Errorf("slugify did not cap length: %d chars", len(got))
	}
}
