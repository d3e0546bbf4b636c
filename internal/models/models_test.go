package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionStatus(t *testing.T) {
	t.Run("IsTerminal", func(t *testing.T) {
		terminal := []SessionStatus{StatusCompleted, StatusFailed}
		for _, s := range terminal {
			if !s.IsTerminal() {
				t.Errorf("expected %s to be terminal", s)
			}
		}

		active := []SessionStatus{StatusPending, StatusInProgress}
		for _, s := range active {
			if s.IsTerminal() {
				t.Errorf("expected %s to not be terminal", s)
			}
		}
	})

	t.Run("UnmarshalJSON", func(t *testing.T) {
		t.Run("Known Statuses", func(t *testing.T) {
			for _, raw := range []string{"pending", "in_progress", "completed", "failed"} {
				var s SessionStatus
				if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
					t.Fatalf("expected no error for %q, got %v", raw, err)
				}
				if string(s) != raw {
					t.Errorf("expected %q, got %q", raw, s)
				}
			}
		})

		t.Run("Running Alias", func(t *testing.T) {
			var s SessionStatus
			if err := json.Unmarshal([]byte(`"running"`), &s); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if s != StatusInProgress {
				t.Errorf("expected running to decode as in_progress, got %q", s)
			}
		})

		t.Run("Unknown Status", func(t *testing.T) {
			var s SessionStatus
			if err := json.Unmarshal([]byte(`"paused"`), &s); err == nil {
				t.Error("expected error for unknown status")
			}
		})
	})
}

func TestDepth(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, d := range []Depth{DepthBasic, DepthStandard, DepthDeep} {
			if !d.Valid() {
				t.Errorf("expected depth %d to be valid", int(d))
			}
		}
		for _, d := range []Depth{0, 4, -1} {
			if d.Valid() {
				t.Errorf("expected depth %d to be invalid", int(d))
			}
		}
	})

	t.Run("ParseDepth", func(t *testing.T) {
		cases := map[string]Depth{
			"1":        DepthBasic,
			"basic":    DepthBasic,
			"2":        DepthStandard,
			"Standard": DepthStandard,
			"3":        DepthDeep,
			" deep ":   DepthDeep,
		}
		for input, want := range cases {
			got, err := ParseDepth(input)
			if err != nil {
				t.Fatalf("expected no error for %q, got %v", input, err)
			}
			if got != want {
				t.Errorf("expected %q to parse as %d, got %d", input, int(want), int(got))
			}
		}

		if _, err := ParseDepth("extreme"); err == nil {
			t.Error("expected error for unknown depth name")
		}
	})
}

func TestSessionDecoding(t *testing.T) {
	raw := `{
		"id": "abc123",
		"topic": "quantum computing",
		"depth": 2,
		"status": "running",
		"progress": 40,
		"startTime": "2025-01-01T00:00:00Z"
	}`

	var session ResearchSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if session.ID != "abc123" {
		t.Errorf("expected id 'abc123', got %s", session.ID)
	}
	if session.Status != StatusInProgress {
		t.Errorf("expected status in_progress, got %s", session.Status)
	}
	if session.Depth != DepthStandard {
		t.Errorf("expected depth 2, got %d", int(session.Depth))
	}
	if session.CompletedTime != nil {
		t.Error("expected nil completedTime")
	}
}

func TestProgressUpdateDecoding(t *testing.T) {
	t.Run("Partial Update", func(t *testing.T) {
		var update ProgressUpdate
		if err := json.Unmarshal([]byte(`{"progress": 40}`), &update); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if update.Status != nil {
			t.Error("expected nil status for partial update")
		}
		if update.Progress == nil || *update.Progress != 40 {
			t.Error("expected progress 40")
		}
	})

	t.Run("Terminal Update", func(t *testing.T) {
		var update ProgressUpdate
		raw := `{"status": "completed", "progress": 100, "completedTime": "2025-01-01T00:00:00Z"}`
		if err := json.Unmarshal([]byte(raw), &update); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if update.Status == nil || !update.Status.IsTerminal() {
			t.Error("expected terminal status")
		}
		if update.CompletedTime == nil {
			t.Fatal("expected completedTime to be set")
		}
		want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if !update.CompletedTime.Equal(want) {
			t.Errorf("expected completedTime %v, got %v", want, update.CompletedTime)
		}
	})
}

func TestArchiveEntities(t *testing.T) {
	t.Run("ArchivedResult Validate", func(t *testing.T) {
		now := time.Now()
		result := NewArchivedResult(1, "abc123", "quantum computing", "summary", DepthStandard, "{}", &now)
		if err := result.Validate(); err != nil {
			t.Errorf("expected valid entity, got %v", err)
		}

		missing := NewArchivedResult(2, "", "topic", "", DepthStandard, "", nil)
		if err := missing.Validate(); err == nil {
			t.Error("expected error for missing remote id")
		}

		badDepth := NewArchivedResult(3, "id", "topic", "", Depth(9), "", nil)
		if err := badDepth.Validate(); err == nil {
			t.Error("expected error for invalid depth")
		}
	})

	t.Run("ArchivedResult ToSummary", func(t *testing.T) {
		now := time.Now()
		result := NewArchivedResult(1, "abc123", "quantum computing", "short summary", DepthDeep, "{}", &now)
		summary := result.ToSummary()

		if summary.ID != "abc123" {
			t.Errorf("expected summary id 'abc123', got %s", summary.ID)
		}
		if summary.Topic != "quantum computing" {
			t.Errorf("expected topic to carry over, got %s", summary.Topic)
		}
		if summary.CompletedTime == nil {
			t.Error("expected completed time to carry over")
		}
	})

	t.Run("Topic Validate", func(t *testing.T) {
		topic := NewTopic(1, "quantum computing")
		if err := topic.Validate(); err != nil {
			t.Errorf("expected valid topic, got %v", err)
		}

		empty := NewTopic(2, "")
		if err := empty.Validate(); err == nil {
			t.Error("expected error for empty topic name")
		}
	})
}
