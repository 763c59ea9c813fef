package server

import (
	"context"
	"fmt"

	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/identity"
	"github.com/smartguide/smartguide/internal/user"
)

type fakeHistoryRepository struct {
	records    []history.Record
	createErr  error
	findErr    error
	lastUserID string
	lastLimit  int
}

func (f *fakeHistoryRepository) Create(_ context.Context, record *history.Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHistoryRepository) FindRecent(_ context.Context, userID string, limit int) ([]history.Record, error) {
	f.lastUserID = userID
	f.lastLimit = limit
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records, nil
}

type fakeProgressRepository struct {
	rows      map[string]*gamification.Progress
	findErr   error
	upsertErr error
}

func newFakeProgressRepository() *fakeProgressRepository {
	return &fakeProgressRepository{rows: map[string]*gamification.Progress{}}
}

func (f *fakeProgressRepository) FindByUser(_ context.Context, userID string) (*gamification.Progress, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.rows[userID], nil
}

func (f *fakeProgressRepository) Upsert(_ context.Context, progress *gamification.Progress) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[progress.UserID] = progress
	return nil
}

type fakeUserRepository struct {
	ensured   []identity.Identity
	ensureErr error
}

func (f *fakeUserRepository) FindByProviderID(context.Context, string) (*user.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeUserRepository) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeUserRepository) Ensure(_ context.Context, id identity.Identity) (*user.User, error) {
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	f.ensured = append(f.ensured, id)
	return &user.User{ID: 1, ProviderUserID: id.UserID, Email: id.Email}, nil
}
