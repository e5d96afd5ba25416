package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ArtifactRawHTML is the artifact kind for cached page markup.
const ArtifactRawHTML = "raw_html"

// InsertURL inserts a URL, returning the url_id. If the URL already exists,
// its last_seen timestamp and domain type are refreshed and the existing
// url_id is returned.
func (db *DB) InsertURL(rawURL, domainType string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	// Check if URL already exists
	var existingID int64
	err = db.QueryRow("SELECT url_id FROM urls WHERE url = ?", rawURL).Scan(&existingID)
	if err == nil {
		_, err = db.Exec(`
			UPDATE urls SET domain_type = ?, last_seen = CURRENT_TIMESTAMP
			WHERE url_id = ?
		`, domainType, existingID)
		if err != nil {
			return 0, fmt.Errorf("failed to refresh URL: %w", err)
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing URL: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO urls (url, domain, domain_type)
		VALUES (?, ?, ?)
	`, rawURL, parsed.Host, domainType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert URL: %w", err)
	}

	urlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}

	return urlID, nil
}

// RecordAccess records a fetch attempt in url_accesses.
func (db *DB) RecordAccess(urlID int64, statusCode int, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO url_accesses (url_id, status_code, error_type, success)
		VALUES (?, ?, ?, ?)
	`, urlID, statusCode, errorType, success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// InsertArtifact inserts or updates the artifact pointer for a URL and kind,
// returning the artifact_id.
func (db *DB) InsertArtifact(urlID int64, kind, contentHash, filePath string, sizeBytes int64) (int64, error) {
	// Check if artifact already exists for this URL and kind
	var existingID int64
	err := db.QueryRow("SELECT artifact_id FROM artifacts WHERE url_id = ? AND kind = ?", urlID, kind).Scan(&existingID)
	if err == nil {
		// Update existing artifact
		_, err = db.Exec(`
			UPDATE artifacts
			SET content_hash = ?, file_path = ?, size_bytes = ?
			WHERE artifact_id = ?
		`, contentHash, filePath, sizeBytes, existingID)
		if err != nil {
			return 0, fmt.Errorf("failed to update artifact: %w", err)
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing artifact: %w", err)
	}

	// Insert new artifact
	result, err := db.Exec(`
		INSERT INTO artifacts (url_id, kind, content_hash, file_path, size_bytes)
		VALUES (?, ?, ?, ?, ?)
	`, urlID, kind, contentHash, filePath, sizeBytes)
	if err != nil {
		return 0, fmt.Errorf("failed to insert artifact: %w", err)
	}

	artifactID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get artifact ID: %w", err)
	}

	return artifactID, nil
}

// GetURLID returns the url_id for a given URL.
func (db *DB) GetURLID(rawURL string) (int64, error) {
	var urlID int64
	err := db.QueryRow("SELECT url_id FROM urls WHERE url = ?", rawURL).Scan(&urlID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("URL not found: %s", rawURL)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get URL ID: %w", err)
	}
	return urlID, nil
}

// GetURLByID returns the URL string for a given url_id.
func (db *DB) GetURLByID(urlID int64) (string, error) {
	var rawURL string
	err := db.QueryRow("SELECT url FROM urls WHERE url_id = ?", urlID).Scan(&rawURL)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("URL ID not found: %d", urlID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get URL: %w", err)
	}
	return rawURL, nil
}

// AccessRecord represents a URL access attempt.
type AccessRecord struct {
	AccessID   int64
	AccessedAt time.Time
	StatusCode int
	ErrorType  string
	Success    bool
}

// GetLastAccess returns the most recent access record for a URL, or nil if
// the URL has never been fetched.
func (db *DB) GetLastAccess(urlID int64) (*AccessRecord, error) {
	var record AccessRecord
	err := db.QueryRow(`
		SELECT access_id, accessed_at, status_code, error_type, success
		FROM url_accesses
		WHERE url_id = ?
		ORDER BY accessed_at DESC, access_id DESC
		LIMIT 1
	`, urlID).Scan(&record.AccessID, &record.AccessedAt, &record.StatusCode, &record.ErrorType, &record.Success)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last access: %w", err)
	}
	return &record, nil
}

// ListAccesses returns access records for a URL, newest first. A limit of 0
// returns all of them.
func (db *DB) ListAccesses(urlID int64, limit int) ([]AccessRecord, error) {
	query := `
		SELECT access_id, accessed_at, status_code, error_type, success
		FROM url_accesses
		WHERE url_id = ?
		ORDER BY accessed_at DESC, access_id DESC
	`
	args := []interface{}{urlID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accesses: %w", err)
	}
	defer rows.Close()

	var records []AccessRecord
	for rows.Next() {
		var record AccessRecord
		err := rows.Scan(&record.AccessID, &record.AccessedAt, &record.StatusCode, &record.ErrorType, &record.Success)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// URLRecord represents a tracked URL with its most recent access outcome.
type URLRecord struct {
	URLID      int64
	URL        string
	Domain     string
	DomainType string
	FirstSeen  time.Time
	LastSeen   time.Time
	LastStatus sql.NullInt64
	LastOK     sql.NullBool
}

// ListURLs returns all tracked URLs joined with their latest access.
func (db *DB) ListURLs() ([]URLRecord, error) {
	rows, err := db.Query(`
		SELECT u.url_id, u.url, u.domain, u.domain_type, u.first_seen, u.last_seen,
		       a.status_code, a.success
		FROM urls u
		LEFT JOIN url_accesses a ON a.access_id = (
			SELECT access_id FROM url_accesses
			WHERE url_id = u.url_id
			ORDER BY accessed_at DESC, access_id DESC
			LIMIT 1
		)
		ORDER BY u.url_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var records []URLRecord
	for rows.Next() {
		var record URLRecord
		err := rows.Scan(&record.URLID, &record.URL, &record.Domain, &record.DomainType,
			&record.FirstSeen, &record.LastSeen, &record.LastStatus, &record.LastOK)
		if err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// GetArtifactPath returns the file path for a URL's artifact of a given kind.
func (db *DB) GetArtifactPath(urlID int64, kind string) (string, error) {
	var filePath string
	err := db.QueryRow(`
		SELECT file_path FROM artifacts
		WHERE url_id = ? AND kind = ?
	`, urlID, kind).Scan(&filePath)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("artifact not found for kind %s", kind)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get artifact path: %w", err)
	}
	return filePath, nil
}
