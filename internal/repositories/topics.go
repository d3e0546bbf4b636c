package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// TopicRepository implements models.Repository[*models.Topic] for topic history.
//
// Topics are unique by name; Touch records when a topic was last researched
// so recently studied subjects sort first in the TUI.
type TopicRepository struct {
	db *sql.DB
}

// NewTopicRepository creates a new TopicRepository with the given database connection
func NewTopicRepository(db *sql.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// Create inserts a new topic into the database with generated ID and sequence
func (r *TopicRepository) Create(topic *models.Topic) error {
	sequence, err := NextSequence(r.db, "topics")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	topic.SetID(id)

	if err := topic.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO topics (id, sequence, name, last_researched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		topic.Name(),
		topic.LastResearched(),
		topic.CreatedAt(),
		topic.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert topic: %w", err)
	}

	return nil
}

// Get retrieves a topic by ID, excluding soft-deleted topics
func (r *TopicRepository) Get(id string) (*models.Topic, error) {
	query := `
		SELECT id, sequence, name, last_researched_at, created_at, updated_at, deleted_at
		FROM topics
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a topic by its unique name
func (r *TopicRepository) GetByName(name string) (*models.Topic, error) {
	query := `
		SELECT id, sequence, name, last_researched_at, created_at, updated_at, deleted_at
		FROM topics
		WHERE name = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, name))
}

// Update modifies an existing topic in the database
func (r *TopicRepository) Update(topic *models.Topic) error {
	if err := topic.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	topic.SetUpdatedAt(now)

	query := `
		UPDATE topics
		SET name = ?, last_researched_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, topic.Name(), topic.LastResearched(), now, topic.ID())
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("topic not found or already deleted: %s", topic.ID())
	}

	return nil
}

// Touch creates the topic if it is new, otherwise stamps last_researched_at.
func (r *TopicRepository) Touch(name string, researchedAt time.Time) (*models.Topic, error) {
	topic, err := r.GetByName(name)
	if err != nil {
		topic = models.NewTopic(0, name)
		topic.SetLastResearched(&researchedAt)
		if err := r.Create(topic); err != nil {
			return nil, err
		}
		return topic, nil
	}

	topic.SetLastResearched(&researchedAt)
	if err := r.Update(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// Delete soft-deletes a topic by ID
func (r *TopicRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE topics
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("topic not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all topics, excluding soft-deleted topics, most recently researched first
func (r *TopicRepository) List(criteria map[string]any) ([]*models.Topic, error) {
	query := `
		SELECT id, sequence, name, last_researched_at, created_at, updated_at, deleted_at
		FROM topics
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY last_researched_at DESC, sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		topic, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return topics, nil
}

// scanOne scans a single row into a [models.Topic]
func (r *TopicRepository) scanOne(row *sql.Row) (*models.Topic, error) {
	var (
		id             string
		sequence       int
		name           string
		lastResearched sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &lastResearched, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("topic not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan topic: %w", err)
	}

	return r.build(id, sequence, name, lastResearched, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Topic]
func (r *TopicRepository) scanRow(rows *sql.Rows) (*models.Topic, error) {
	var (
		id             string
		sequence       int
		name           string
		lastResearched sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &name, &lastResearched, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan topic: %w", err)
	}

	return r.build(id, sequence, name, lastResearched, createdAt, updatedAt, deletedAt), nil
}

func (r *TopicRepository) build(id string, sequence int, name string, lastResearched sql.NullTime, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Topic {
	topic := models.NewTopic(sequence, name)
	topic.SetID(id)
	topic.SetCreatedAt(createdAt)
	topic.SetUpdatedAt(updatedAt)
	if lastResearched.Valid {
		topic.SetLastResearched(&lastResearched.Time)
	}
	if deletedAt.Valid {
		topic.SetDeletedAt(&deletedAt.Time)
	}

	return topic
}
