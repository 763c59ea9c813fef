package gamification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Progress is the persisted gamification state for one user. Badges are
// stored as a JSON column.
type Progress struct {
	UserID          string          `db:"user_id"`
	Points          int             `db:"points"`
	Level           int             `db:"level"`
	Streak          int             `db:"streak"`
	Badges          json.RawMessage `db:"badges"`
	LastPracticedAt sql.NullString  `db:"last_practiced_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// State converts the persisted row into the transition-friendly shape.
func (p Progress) State() (State, error) {
	state := State{
		Points: p.Points,
		Level:  p.Level,
		Streak: p.Streak,
		Badges: []string{},
	}
	if p.LastPracticedAt.Valid {
		state.LastPracticedAt = p.LastPracticedAt.String
	}
	if len(p.Badges) > 0 {
		if err := json.Unmarshal(p.Badges, &state.Badges); err != nil {
			return State{}, fmt.Errorf("json.Unmarshal(badges) > %w", err)
		}
	}
	return state, nil
}

// NewProgress builds a persistable row from a state snapshot.
func NewProgress(userID string, state State) (*Progress, error) {
	badges := state.Badges
	if badges == nil {
		badges = []string{}
	}
	encoded, err := json.Marshal(badges)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(badges) > %w", err)
	}
	progress := Progress{
		UserID: userID,
		Points: state.Points,
		Level:  state.Level,
		Streak: state.Streak,
		Badges: encoded,
	}
	if state.LastPracticedAt != "" {
		progress.LastPracticedAt = sql.NullString{String: state.LastPracticedAt, Valid: true}
	}
	return &progress, nil
}

// Repository defines operations for managing gamification progress.
type Repository interface {
	FindByUser(ctx context.Context, userID string) (*Progress, error)
	Upsert(ctx context.Context, progress *Progress) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByUser returns the progress row for a user, or nil if not found.
func (r *DBRepository) FindByUser(ctx context.Context, userID string) (*Progress, error) {
	var progress Progress
	err := r.db.GetContext(ctx, &progress,
		"SELECT * FROM gamification_progress WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(gamification_progress) > %w", err)
	}
	return &progress, nil
}

// Upsert inserts or updates a user's progress.
func (r *DBRepository) Upsert(ctx context.Context, progress *Progress) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO gamification_progress (user_id, points, level, streak, badges, last_practiced_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			points = VALUES(points), level = VALUES(level), streak = VALUES(streak),
			badges = VALUES(badges), last_practiced_at = VALUES(last_practiced_at)`,
		progress.UserID, progress.Points, progress.Level, progress.Streak,
		progress.Badges, progress.LastPracticedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert gamification_progress) > %w", err)
	}
	return nil
}
