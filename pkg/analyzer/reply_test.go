package analyzer

import (
	"strings"
	"testing"

	"govstale/models"
)

func TestStripFormattingMarks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "plain JSON untouched",
			reply: `{"score": 10}`,
			want:  `{"score": 10}`,
		},
		{
			name:  "json fence",
			reply: "```json\n{\"score\": 10}\n```",
			want:  `{"score": 10}`,
		},
		{
			name:  "bare fence",
			reply: "```\n{\"score\": 10}\n```",
			want:  `{"score": 10}`,
		},
		{
			name:  "leading language tag without fence",
			reply: "json\n{\"score\": 10}",
			want:  `{"score": 10}`,
		},
		{
			name:  "single backticks",
			reply: "`{\"score\": 10}`",
			want:  `{"score": 10}`,
		},
		{
			name:  "surrounding whitespace",
			reply: "  \n{\"score\": 10}\n\n",
			want:  `{"score": 10}`,
		},
		{
			name:  "backtick inside payload survives",
			reply: "```json\n{\"notes\": \"uses `jquery`\"}\n```",
			want:  `{"notes": "uses ` + "`jquery`" + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFormattingMarks(tt.reply); got != tt.want {
				t.Errorf("stripFormattingMarks(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantScore int
		wantNotes string
		wantErr   bool
	}{
		{
			name:      "both fields present",
			reply:     `{"score": 85, "notes": "stale content"}`,
			wantScore: 85,
			wantNotes: "stale content",
		},
		{
			name:      "fenced reply",
			reply:     "```json\n{\"score\": 30, \"notes\": \"looks current\"}\n```",
			wantScore: 30,
			wantNotes: "looks current",
		},
		{
			name:      "missing score defaults to maximum",
			reply:     `{"notes": "no judgment"}`,
			wantScore: models.ScoreMax,
			wantNotes: "no judgment",
		},
		{
			name:      "missing notes defaults to placeholder",
			reply:     `{"score": 20}`,
			wantScore: 20,
			wantNotes: notesNoReply,
		},
		{
			name:      "float score truncates",
			reply:     `{"score": 85.7, "notes": "ok"}`,
			wantScore: 85,
			wantNotes: "ok",
		},
		{
			name:      "quoted numeric score still coerces",
			reply:     `{"score": "85", "notes": "ok"}`,
			wantScore: 85,
			wantNotes: "ok",
		},
		{
			name:      "non-numeric score is not coercible",
			reply:     `{"score": "very stale", "notes": "ok"}`,
			wantScore: models.ScoreMax,
			wantNotes: "ok",
		},
		{
			name:      "object score is not coercible",
			reply:     `{"score": {"value": 10}, "notes": "ok"}`,
			wantScore: models.ScoreMax,
			wantNotes: "ok",
		},
		{
			name:      "null notes defaults to placeholder",
			reply:     `{"score": 10, "notes": null}`,
			wantScore: 10,
			wantNotes: notesNoReply,
		},
		{
			name:    "invalid JSON",
			reply:   "the page looks fine to me",
			wantErr: true,
		},
		{
			name:    "JSON but not an object",
			reply:   `[10, "notes"]`,
			wantErr: true,
		},
		{
			name:    "JSON null",
			reply:   "null",
			wantErr: true,
		},
		{
			name:    "empty reply",
			reply:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, notes, err := parseReply(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReply(%q) expected error, got score=%d notes=%q", tt.reply, score, notes)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReply(%q) unexpected error: %v", tt.reply, err)
			}
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if notes != tt.wantNotes {
				t.Errorf("notes = %q, want %q", notes, tt.wantNotes)
			}
		})
	}
}

func TestParseReply_ErrorMentionsCause(t *testing.T) {
	_, _, err := parseReply("not json at all")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("error %q does not name the cause", err)
	}
}
