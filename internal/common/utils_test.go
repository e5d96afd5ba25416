package common

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean URL unchanged", in: "https://example.gov", want: "https://example.gov"},
		{name: "surrounding whitespace", in: "  https://example.gov \n", want: "https://example.gov"},
		{name: "trailing comma", in: "https://example.gov,", want: "https://example.gov"},
		{name: "markdown link", in: "[site](https://example.gov/page)", want: "https://example.gov/page"},
		{name: "wrapping parens", in: "(https://example.gov)", want: "https://example.gov"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	urls := []string{
		"https://moda.gov.tw",
		" https://example.gov/page, ",
		"not-a-url",
		"ftp://example.gov",
		"https://bad host.gov",
	}

	sanitized, invalid := SanitizeAndValidateURLs(urls)

	if len(sanitized) != 2 {
		t.Fatalf("expected 2 sanitized URLs, got %d: %v", len(sanitized), sanitized)
	}
	if sanitized[0] != "https://moda.gov.tw" || sanitized[1] != "https://example.gov/page" {
		t.Errorf("unexpected sanitized URLs: %v", sanitized)
	}
	if len(invalid) != 3 {
		t.Errorf("expected 3 invalid URLs, got %d: %v", len(invalid), invalid)
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))

	if a != b {
		t.Errorf("same content produced different hashes: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different content produced the same hash: %s", a)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
