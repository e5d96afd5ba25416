package db

import (
	"fmt"

	dbpkg "govstale/pkg/db"
)

// ResolveURLFromIDOrURL turns a numeric argument into its tracked URL;
// anything non-numeric is treated as a URL and returned unchanged.
func ResolveURLFromIDOrURL(arg string, database *dbpkg.DB) (string, error) {
	// Check if it's a numeric ID
	if id, err := fmt.Sscanf(arg, "%d", new(int64)); err == nil && id == 1 {
		// It's a number, parse it properly
		var urlID int64
		if _, err := fmt.Sscanf(arg, "%d", &urlID); err == nil {
			return database.GetURLByID(urlID)
		}
	}

	// Otherwise treat as URL
	return arg, nil
}
