package models

import (
	"fmt"
	"time"
)

// record holds the lifecycle fields shared by all persistent entities.
type record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newRecord(sequence int) record {
	now := time.Now()
	return record{sequence: sequence, createdAt: now, updatedAt: now}
}

func (r *record) ID() string { return r.id }

func (r *record) Sequence() int { return r.sequence }

func (r *record) CreatedAt() time.Time { return r.createdAt }

func (r *record) UpdatedAt() time.Time { return r.updatedAt }

func (r *record) DeletedAt() *time.Time { return r.deletedAt }

func (r *record) SetID(id string) { r.id = id }

func (r *record) SetCreatedAt(t time.Time) { r.createdAt = t }

func (r *record) SetUpdatedAt(t time.Time) { r.updatedAt = t }

func (r *record) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// ArchivedResult is a completed research result saved to the local SQLite archive.
//
// Body holds the full ResearchResult serialized as JSON so the article can
// be re-read without hitting the backend.
type ArchivedResult struct {
	record
	remoteID    string
	topic       string
	summary     string
	depth       Depth
	body        string
	completedAt *time.Time
}

// NewArchivedResult creates an archive entity for a completed session.
func NewArchivedResult(sequence int, remoteID, topic, summary string, depth Depth, body string, completedAt *time.Time) *ArchivedResult {
	return &ArchivedResult{
		record:      newRecord(sequence),
		remoteID:    remoteID,
		topic:       topic,
		summary:     summary,
		depth:       depth,
		body:        body,
		completedAt: completedAt,
	}
}

func (a *ArchivedResult) RemoteID() string { return a.remoteID }

func (a *ArchivedResult) Topic() string { return a.topic }

func (a *ArchivedResult) Summary() string { return a.summary }

func (a *ArchivedResult) Depth() Depth { return a.depth }

func (a *ArchivedResult) Body() string { return a.body }

func (a *ArchivedResult) CompletedAt() *time.Time { return a.completedAt }

func (a *ArchivedResult) SetSummary(s string) { a.summary = s }

func (a *ArchivedResult) SetBody(b string) { a.body = b }

// Validate checks the archive entity before persistence.
func (a *ArchivedResult) Validate() error {
	if a.remoteID == "" {
		return fmt.Errorf("archived result requires a remote id")
	}
	if a.topic == "" {
		return fmt.Errorf("archived result requires a topic")
	}
	if !a.depth.Valid() {
		return fmt.Errorf("archived result has invalid depth: %d", int(a.depth))
	}
	return nil
}

// ToSummary converts the archive entity into the listing DTO so local and
// remote results can share display code.
func (a *ArchivedResult) ToSummary() ResultSummary {
	return ResultSummary{
		ID:            a.remoteID,
		Topic:         a.topic,
		Summary:       a.summary,
		CompletedTime: a.completedAt,
	}
}

// Topic is a previously researched topic tracked in the local history cache.
type Topic struct {
	record
	name           string
	lastResearched *time.Time
}

// NewTopic creates a topic history entity.
func NewTopic(sequence int, name string) *Topic {
	return &Topic{record: newRecord(sequence), name: name}
}

func (t *Topic) Name() string { return t.name }

func (t *Topic) LastResearched() *time.Time { return t.lastResearched }

func (t *Topic) SetLastResearched(ts *time.Time) { t.lastResearched = ts }

// Validate checks the topic entity before persistence.
func (t *Topic) Validate() error {
	if t.name == "" {
		return fmt.Errorf("topic requires a name")
	}
	return nil
}
