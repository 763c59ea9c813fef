// Package history provides interview practice history models and repositories.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DefaultListLimit caps how many records a listing returns.
const DefaultListLimit = 100

// Record represents one evaluated practice answer. UserID is null for
// anonymous practice sessions.
type Record struct {
	ID        int64          `db:"id"`
	UserID    sql.NullString `db:"user_id"`
	Topic     string         `db:"topic"`
	Question  string         `db:"question"`
	Answer    string         `db:"answer"`
	Feedback  string         `db:"feedback"`
	Rating    int            `db:"rating"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// MarshalJSON serializes Record with a null userId for anonymous records.
func (r Record) MarshalJSON() ([]byte, error) {
	var userID *string
	if r.UserID.Valid {
		userID = &r.UserID.String
	}
	return json.Marshal(&struct {
		ID        int64     `json:"id"`
		UserID    *string   `json:"userId"`
		Topic     string    `json:"topic"`
		Question  string    `json:"question"`
		Answer    string    `json:"answer"`
		Feedback  string    `json:"feedback"`
		Rating    int       `json:"rating"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}{
		ID:        r.ID,
		UserID:    userID,
		Topic:     r.Topic,
		Question:  r.Question,
		Answer:    r.Answer,
		Feedback:  r.Feedback,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	})
}

// Repository defines operations for managing practice history.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindRecent(ctx context.Context, userID string, limit int) ([]Record, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Create inserts a new history record.
func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO interview_histories (user_id, topic, question, answer, feedback, rating)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.UserID, record.Topic, record.Question, record.Answer, record.Feedback, record.Rating)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert interview_history) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	record.ID = id
	return nil
}

// FindRecent returns records ordered by creation time descending. An empty
// userID lists records for all users.
func (r *DBRepository) FindRecent(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var records []Record
	if userID == "" {
		if err := r.db.SelectContext(ctx, &records,
			"SELECT * FROM interview_histories ORDER BY created_at DESC LIMIT ?", limit); err != nil {
			return nil, fmt.Errorf("db.SelectContext(interview_histories) > %w", err)
		}
		return records, nil
	}

	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM interview_histories WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(interview_histories by user) > %w", err)
	}
	return records, nil
}
