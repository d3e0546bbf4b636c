package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func archivedResult(topic string) *models.ArchivedResult {
	completed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.NewArchivedResult(0, "abc123", topic, "A short overview.", models.DepthStandard, `{"id":"abc123"}`, &completed)
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "results")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	second, err := NextSequence(db, "results")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence to increment, got %d then %d", first, second)
	}
}

func TestResultRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := archivedResult("quantum computing")

		if err := repo.Create(result); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		if result.ID() == "" {
			t.Error("result ID should be set after creation")
		}
	})

	t.Run("Create Rejects Invalid Entity", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := models.NewArchivedResult(0, "", "quantum computing", "", models.DepthStandard, "", nil)

		if err := repo.Create(result); err == nil {
			t.Error("expected validation error for missing remote id")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := archivedResult("quantum computing")

		if err := repo.Create(result); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		retrieved, err := repo.Get(result.ID())
		if err != nil {
			t.Fatalf("failed to get result: %v", err)
		}

		if retrieved.RemoteID() != "abc123" {
			t.Errorf("expected remote id 'abc123', got %s", retrieved.RemoteID())
		}

		if retrieved.Topic() != "quantum computing" {
			t.Errorf("expected topic 'quantum computing', got %s", retrieved.Topic())
		}

		if retrieved.Depth() != models.DepthStandard {
			t.Errorf("expected standard depth, got %d", retrieved.Depth())
		}

		if retrieved.CompletedAt() == nil {
			t.Error("expected completed timestamp to round-trip")
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := archivedResult("quantum computing")

		if err := repo.Create(result); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("abc123")
		if err != nil {
			t.Fatalf("failed to get result by remote id: %v", err)
		}

		if retrieved.ID() != result.ID() {
			t.Errorf("expected ID %s, got %s", result.ID(), retrieved.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := archivedResult("quantum computing")

		if err := repo.Create(result); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		result.SetSummary("A revised overview.")
		if err := repo.Update(result); err != nil {
			t.Fatalf("failed to update result: %v", err)
		}

		retrieved, err := repo.Get(result.ID())
		if err != nil {
			t.Fatalf("failed to get result: %v", err)
		}

		if retrieved.Summary() != "A revised overview." {
			t.Errorf("expected updated summary, got %s", retrieved.Summary())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)
		result := archivedResult("quantum computing")

		if err := repo.Create(result); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		if err := repo.Delete(result.ID()); err != nil {
			t.Fatalf("failed to delete result: %v", err)
		}

		if _, err := repo.Get(result.ID()); err == nil {
			t.Error("expected soft-deleted result to be hidden")
		}

		if err := repo.Delete(result.ID()); err == nil {
			t.Error("expected second delete to fail")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResultRepository(db)

		first := archivedResult("quantum computing")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		second := models.NewArchivedResult(0, "def456", "fusion power", "", models.DepthDeep, "{}", nil)
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create result: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list results: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 results, got %d", len(all))
		}

		filtered, err := repo.List(map[string]any{"topic": "fusion power"})
		if err != nil {
			t.Fatalf("failed to list results: %v", err)
		}
		if len(filtered) != 1 || filtered[0].RemoteID() != "def456" {
			t.Errorf("expected only the fusion power result, got %d", len(filtered))
		}
	})
}

func TestTopicRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopicRepository(db)
		topic := models.NewTopic(0, "quantum computing")

		if err := repo.Create(topic); err != nil {
			t.Fatalf("failed to create topic: %v", err)
		}

		retrieved, err := repo.Get(topic.ID())
		if err != nil {
			t.Fatalf("failed to get topic: %v", err)
		}

		if retrieved.Name() != "quantum computing" {
			t.Errorf("expected name 'quantum computing', got %s", retrieved.Name())
		}
	})

	t.Run("GetByName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopicRepository(db)
		topic := models.NewTopic(0, "fusion power")

		if err := repo.Create(topic); err != nil {
			t.Fatalf("failed to create topic: %v", err)
		}

		retrieved, err := repo.GetByName("fusion power")
		if err != nil {
			t.Fatalf("failed to get topic by name: %v", err)
		}

		if retrieved.ID() != topic.ID() {
			t.Errorf("expected ID %s, got %s", topic.ID(), retrieved.ID())
		}
	})

	t.Run("Touch Creates Then Updates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopicRepository(db)

		first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		topic, err := repo.Touch("quantum computing", first)
		if err != nil {
			t.Fatalf("failed to touch new topic: %v", err)
		}
		if topic.LastResearched() == nil || !topic.LastResearched().Equal(first) {
			t.Errorf("expected last researched %v, got %v", first, topic.LastResearched())
		}

		second := first.Add(24 * time.Hour)
		topic, err = repo.Touch("quantum computing", second)
		if err != nil {
			t.Fatalf("failed to touch existing topic: %v", err)
		}
		if !topic.LastResearched().Equal(second) {
			t.Errorf("expected last researched %v, got %v", second, topic.LastResearched())
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list topics: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected a single topic after repeated touches, got %d", len(all))
		}
	})

	t.Run("List Orders by Recency", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopicRepository(db)

		older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := older.Add(48 * time.Hour)

		if _, err := repo.Touch("quantum computing", older); err != nil {
			t.Fatalf("failed to touch topic: %v", err)
		}
		if _, err := repo.Touch("fusion power", newer); err != nil {
			t.Fatalf("failed to touch topic: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list topics: %v", err)
		}

		if len(all) != 2 || all[0].Name() != "fusion power" {
			t.Errorf("expected most recently researched topic first, got %v", all)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopicRepository(db)
		topic := models.NewTopic(0, "tidal energy")

		if err := repo.Create(topic); err != nil {
			t.Fatalf("failed to create topic: %v", err)
		}

		if err := repo.Delete(topic.ID()); err != nil {
			t.Fatalf("failed to delete topic: %v", err)
		}

		if _, err := repo.Get(topic.ID()); err == nil {
			t.Error("expected soft-deleted topic to be hidden")
		}
	})
}
