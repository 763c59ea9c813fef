package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/interview"
)

func newGamificationTestHandler(progress *fakeProgressRepository) *Handler {
	return NewHandler(
		interview.NewService(nil),
		&fakeHistoryRepository{},
		progress,
		&fakeUserRepository{},
	)
}

func TestHandleGamificationGet(t *testing.T) {
	t.Run("requires a user id", func(t *testing.T) {
		handler := newGamificationTestHandler(newFakeProgressRepository())

		request := httptest.NewRequest(http.MethodGet, "/api/gamification", nil)
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"error": "userId required"}`, recorder.Body.String())
	})

	t.Run("unknown user has null gamification", func(t *testing.T) {
		handler := newGamificationTestHandler(newFakeProgressRepository())

		request := httptest.NewRequest(http.MethodGet, "/api/gamification?userId=user_1", nil)
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"gamification": null}`, recorder.Body.String())
	})

	t.Run("returns the stored state", func(t *testing.T) {
		progressRepo := newFakeProgressRepository()
		progress, err := gamification.NewProgress("user_1", gamification.State{
			Points:          55,
			Level:           2,
			Streak:          3,
			Badges:          []string{gamification.BadgeTopAnswer},
			LastPracticedAt: "2026-08-29",
		})
		require.NoError(t, err)
		progressRepo.rows["user_1"] = progress

		handler := newGamificationTestHandler(progressRepo)

		request := httptest.NewRequest(http.MethodGet, "/api/gamification?userId=user_1", nil)
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var got gamificationResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
		assert.Equal(t, "user_1", got.UserID)
		assert.Equal(t, 55, got.State.Points)
		assert.Equal(t, []string{gamification.BadgeTopAnswer}, got.State.Badges)
		assert.Equal(t, "2026-08-29", got.State.LastPracticedAt)
	})
}

func TestHandleGamificationSave(t *testing.T) {
	t.Run("stores the state as sent by the client", func(t *testing.T) {
		progressRepo := newFakeProgressRepository()
		handler := newGamificationTestHandler(progressRepo)

		body := `{"userId": "user_1", "points": 55, "level": 2, "streak": 3, "badges": ["Top Answer"], "lastPracticedAt": "2026-08-30"}`
		request := httptest.NewRequest(http.MethodPost, "/api/gamification", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		stored := progressRepo.rows["user_1"]
		require.NotNil(t, stored)
		state, err := stored.State()
		require.NoError(t, err)
		assert.Equal(t, gamification.State{
			Points:          55,
			Level:           2,
			Streak:          3,
			Badges:          []string{gamification.BadgeTopAnswer},
			LastPracticedAt: "2026-08-30",
		}, state)
	})

	t.Run("missing numbers default to a fresh state", func(t *testing.T) {
		progressRepo := newFakeProgressRepository()
		handler := newGamificationTestHandler(progressRepo)

		body := `{"userId": "user_1"}`
		request := httptest.NewRequest(http.MethodPost, "/api/gamification", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)

		stored := progressRepo.rows["user_1"]
		require.NotNil(t, stored)
		state, err := stored.State()
		require.NoError(t, err)
		assert.Equal(t, gamification.State{Points: 0, Level: 1, Streak: 0, Badges: []string{}}, state)
	})

	t.Run("requires a user id", func(t *testing.T) {
		handler := newGamificationTestHandler(newFakeProgressRepository())

		request := httptest.NewRequest(http.MethodPost, "/api/gamification", strings.NewReader(`{"points": 10}`))
		recorder := httptest.NewRecorder()
		handler.Routes().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
