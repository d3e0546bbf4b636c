package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// ResultRepository implements models.Repository[*models.ArchivedResult] for the local archive.
//
// Handles archived result CRUD with soft delete support and remote-id lookups,
// so a result fetched from the backend is archived at most once.
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository with the given database connection
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts a new archived result into the database with generated ID and sequence
func (r *ResultRepository) Create(result *models.ArchivedResult) error {
	sequence, err := NextSequence(r.db, "results")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	result.SetID(id)

	if err := result.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO results (id, sequence, remote_id, topic, summary, depth, body, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		result.RemoteID(),
		result.Topic(),
		result.Summary(),
		int(result.Depth()),
		result.Body(),
		result.CompletedAt(),
		result.CreatedAt(),
		result.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	return nil
}

// Get retrieves an archived result by ID, excluding soft-deleted results
func (r *ResultRepository) Get(id string) (*models.ArchivedResult, error) {
	query := `
		SELECT id, sequence, remote_id, topic, summary, depth, body, completed_at, created_at, updated_at, deleted_at
		FROM results
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves an archived result by the backend's result identifier
func (r *ResultRepository) GetByRemoteID(remoteID string) (*models.ArchivedResult, error) {
	query := `
		SELECT id, sequence, remote_id, topic, summary, depth, body, completed_at, created_at, updated_at, deleted_at
		FROM results
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing archived result in the database
func (r *ResultRepository) Update(result *models.ArchivedResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	result.SetUpdatedAt(now)

	query := `
		UPDATE results
		SET summary = ?, body = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	sqlResult, err := r.db.Exec(query,
		result.Summary(),
		result.Body(),
		result.CompletedAt(),
		now,
		result.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}

	rows, err := sqlResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("result not found or already deleted: %s", result.ID())
	}

	return nil
}

// Delete soft-deletes an archived result by ID
func (r *ResultRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE results
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	sqlResult, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	rows, err := sqlResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("result not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all archived results matching the given criteria, excluding soft-deleted results
func (r *ResultRepository) List(criteria map[string]any) ([]*models.ArchivedResult, error) {
	query := `
		SELECT id, sequence, remote_id, topic, summary, depth, body, completed_at, created_at, updated_at, deleted_at
		FROM results
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if topic, ok := criteria["topic"].(string); ok && topic != "" {
		query += " AND topic = ?"
		args = append(args, topic)
	}

	if depth, ok := criteria["depth"].(int); ok && depth > 0 {
		query += " AND depth = ?"
		args = append(args, depth)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*models.ArchivedResult
	for rows.Next() {
		result, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return results, nil
}

// scanOne scans a single row into a [models.ArchivedResult]
func (r *ResultRepository) scanOne(row *sql.Row) (*models.ArchivedResult, error) {
	var (
		id          string
		sequence    int
		remoteID    string
		topic       string
		summary     string
		depth       int
		body        string
		completedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &topic, &summary, &depth, &body, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	return r.build(id, sequence, remoteID, topic, summary, depth, body, completedAt, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.ArchivedResult]
func (r *ResultRepository) scanRow(rows *sql.Rows) (*models.ArchivedResult, error) {
	var (
		id          string
		sequence    int
		remoteID    string
		topic       string
		summary     string
		depth       int
		body        string
		completedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &remoteID, &topic, &summary, &depth, &body, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}

	return r.build(id, sequence, remoteID, topic, summary, depth, body, completedAt, createdAt, updatedAt, deletedAt), nil
}

func (r *ResultRepository) build(id string, sequence int, remoteID, topic, summary string, depth int, body string, completedAt sql.NullTime, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.ArchivedResult {
	var completed *time.Time
	if completedAt.Valid {
		completed = &completedAt.Time
	}

	result := models.NewArchivedResult(sequence, remoteID, topic, summary, models.Depth(depth), body, completed)
	result.SetID(id)
	result.SetCreatedAt(createdAt)
	result.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		result.SetDeletedAt(&deletedAt.Time)
	}

	return result
}
