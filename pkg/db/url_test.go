package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestInsertURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "simple HTTPS URL", url: "https://example.gov"},
		{name: "URL with path", url: "https://example.gov/path/to/page"},
		{name: "URL with query params", url: "https://example.gov/search?q=test&lang=en"},
		{name: "duplicate URL returns same ID", url: "https://example.gov"},
	}

	var firstID int64
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urlID, err := db.InsertURL(tt.url, "gov")
			if err != nil {
				t.Fatalf("InsertURL() error = %v", err)
			}
			if urlID == 0 {
				t.Error("InsertURL() returned 0 ID")
			}

			// First and last test use same URL, should get same ID
			if i == 0 {
				firstID = urlID
			}
			if i == len(tests)-1 && urlID != firstID {
				t.Errorf("Duplicate URL got different ID: got %d, want %d", urlID, firstID)
			}
		})
	}
}

func TestInsertURL_ParsesComponents(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urlID, err := db.InsertURL("https://www.moda.gov.tw/press/releases?year=2024", "gov")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	var domain, domainType string
	err = db.QueryRow(`
		SELECT domain, domain_type
		FROM urls WHERE url_id = ?
	`, urlID).Scan(&domain, &domainType)
	if err != nil {
		t.Fatalf("failed to query URL: %v", err)
	}

	if domain != "www.moda.gov.tw" {
		t.Errorf("domain = %q, want %q", domain, "www.moda.gov.tw")
	}
	if domainType != "gov" {
		t.Errorf("domain_type = %q, want %q", domainType, "gov")
	}
}

func TestInsertURL_RefreshesDomainType(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testURL := "https://example.gov/page"
	firstID, err := db.InsertURL(testURL, "general")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	secondID, err := db.InsertURL(testURL, "gov")
	if err != nil {
		t.Fatalf("InsertURL() re-insert failed: %v", err)
	}
	if secondID != firstID {
		t.Fatalf("re-insert got different ID: %d vs %d", secondID, firstID)
	}

	var domainType string
	db.QueryRow("SELECT domain_type FROM urls WHERE url_id = ?", firstID).Scan(&domainType)
	if domainType != "gov" {
		t.Errorf("domain_type = %q, want refreshed %q", domainType, "gov")
	}
}

func TestGetURLID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testURL := "https://example.gov/test"
	wantID, err := db.InsertURL(testURL, "gov")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	gotID, err := db.GetURLID(testURL)
	if err != nil {
		t.Fatalf("GetURLID() error = %v", err)
	}

	if gotID != wantID {
		t.Errorf("GetURLID() = %d, want %d", gotID, wantID)
	}

	// Test non-existent URL
	_, err = db.GetURLID("https://nonexistent.gov")
	if err == nil {
		t.Error("GetURLID() with non-existent URL should return error")
	}
}

func TestGetURLByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testURL := "https://example.gov/test"
	urlID, err := db.InsertURL(testURL, "gov")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	gotURL, err := db.GetURLByID(urlID)
	if err != nil {
		t.Fatalf("GetURLByID() error = %v", err)
	}
	if gotURL != testURL {
		t.Errorf("GetURLByID() = %q, want %q", gotURL, testURL)
	}

	if _, err := db.GetURLByID(9999); err == nil {
		t.Error("GetURLByID() with unknown ID should return error")
	}
}

func TestListURLs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id1, _ := db.InsertURL("https://example.gov/a", "gov")
	id2, _ := db.InsertURL("https://example.org/b", "org")

	if err := db.RecordAccess(id1, 200, "", true); err != nil {
		t.Fatalf("RecordAccess() failed: %v", err)
	}

	records, err := db.ListURLs()
	if err != nil {
		t.Fatalf("ListURLs() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d URLs, want 2", len(records))
	}

	first := records[0]
	if first.URLID != id1 || first.URL != "https://example.gov/a" {
		t.Errorf("records[0] = %+v, want url_id %d", first, id1)
	}
	if !first.LastStatus.Valid || first.LastStatus.Int64 != 200 {
		t.Errorf("records[0].LastStatus = %+v, want 200", first.LastStatus)
	}
	if !first.LastOK.Valid || !first.LastOK.Bool {
		t.Errorf("records[0].LastOK = %+v, want true", first.LastOK)
	}

	// No access recorded for the second URL
	second := records[1]
	if second.URLID != id2 {
		t.Errorf("records[1].URLID = %d, want %d", second.URLID, id2)
	}
	if second.LastStatus.Valid {
		t.Errorf("records[1].LastStatus = %+v, want NULL", second.LastStatus)
	}
}
