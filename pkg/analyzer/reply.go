package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"govstale/models"
)

// stripFormattingMarks removes the wrapping the model tends to add around its
// JSON payload: markdown code fences and a leading language tag. Only edges
// are touched; backticks inside the payload survive.
func stripFormattingMarks(reply string) string {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimSpace(cleaned)
	// Some replies tag the payload without fencing it: "json\n{...}".
	cleaned = strings.TrimPrefix(cleaned, "json")
	return strings.TrimSpace(cleaned)
}

// parseReply extracts score and notes from a cleaned model reply. Missing or
// wrong-typed fields fall back to their defaults without failing the parse;
// only a reply that is not a JSON object at all is an error.
func parseReply(reply string) (int, string, error) {
	cleaned := stripFormattingMarks(reply)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return 0, "", fmt.Errorf("invalid JSON: %w", err)
	}
	if fields == nil {
		return 0, "", fmt.Errorf("reply is not a JSON object")
	}

	score := models.ScoreMax
	if raw, ok := fields["score"]; ok {
		if n, err := coerceScore(raw); err == nil {
			score = n
		}
	}

	notes := notesNoReply
	if raw, ok := fields["notes"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			notes = s
		}
	}

	return score, notes, nil
}

// coerceScore converts a raw JSON value to an int. Floats truncate and
// quoted numbers coerce; anything else is rejected so the caller keeps the
// default.
func coerceScore(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
