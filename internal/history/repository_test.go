package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		setupMock func(mock sqlmock.Sqlmock)
		wantID    int64
		wantErr   bool
	}{
		{
			name: "inserts and assigns the id",
			record: Record{
				UserID:   sql.NullString{String: "user_1", Valid: true},
				Topic:    "React",
				Question: "Q",
				Answer:   "A",
				Feedback: "F",
				Rating:   8,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO interview_histories").
					WithArgs(sql.NullString{String: "user_1", Valid: true}, "React", "Q", "A", "F", 8).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name: "anonymous record stores a null user id",
			record: Record{
				Topic:    "general",
				Question: "Q",
				Answer:   "A",
				Feedback: "F",
				Rating:   5,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO interview_histories").
					WithArgs(sql.NullString{}, "general", "Q", "A", "F", 5).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			wantID: 7,
		},
		{
			name:   "db error",
			record: Record{Topic: "React"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO interview_histories").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			record := tt.record
			err = repo.Create(context.Background(), &record)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, record.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindRecent(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "topic", "question", "answer", "feedback", "rating", "created_at", "updated_at"}

	tests := []struct {
		name      string
		userID    string
		limit     int
		setupMock func(mock sqlmock.Sqlmock)
		wantLen   int
		wantErr   bool
	}{
		{
			name:   "lists all users when no user id is given",
			userID: "",
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(2, nil, "React", "Q2", "A2", "F2", 7, now, now).
					AddRow(1, "user_1", "React", "Q1", "A1", "F1", 8, now, now)
				mock.ExpectQuery("SELECT \\* FROM interview_histories ORDER BY created_at DESC LIMIT \\?").
					WithArgs(10).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name:   "filters by user id",
			userID: "user_1",
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(1, "user_1", "React", "Q1", "A1", "F1", 8, now, now)
				mock.ExpectQuery("SELECT \\* FROM interview_histories WHERE user_id = \\? ORDER BY created_at DESC LIMIT \\?").
					WithArgs("user_1", 10).
					WillReturnRows(rows)
			},
			wantLen: 1,
		},
		{
			name:   "out of range limit is capped at the default",
			userID: "",
			limit:  100000,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM interview_histories ORDER BY created_at DESC LIMIT \\?").
					WithArgs(DefaultListLimit).
					WillReturnRows(sqlmock.NewRows(columns))
			},
			wantLen: 0,
		},
		{
			name:   "db error",
			userID: "",
			limit:  10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM interview_histories ORDER BY created_at DESC LIMIT \\?").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindRecent(context.Background(), tt.userID, tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("anonymous record serializes userId as null", func(t *testing.T) {
		record := Record{ID: 1, Topic: "React", Question: "Q", Answer: "A", Feedback: "F", Rating: 8, CreatedAt: now, UpdatedAt: now}
		encoded, err := json.Marshal(record)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"userId":null`)
	})

	t.Run("owned record carries the user id", func(t *testing.T) {
		record := Record{ID: 1, UserID: sql.NullString{String: "user_1", Valid: true}, Topic: "React", CreatedAt: now, UpdatedAt: now}
		encoded, err := json.Marshal(record)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"userId":"user_1"`)
	})
}
