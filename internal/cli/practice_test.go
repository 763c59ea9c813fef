package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/inference"
	"github.com/smartguide/smartguide/internal/interview"
	mock_inference "github.com/smartguide/smartguide/internal/mocks/inference"
)

type recordingHistoryRepository struct {
	records   []history.Record
	createErr error
}

func (r *recordingHistoryRepository) Create(_ context.Context, record *history.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	record.ID = int64(len(r.records) + 1)
	r.records = append(r.records, *record)
	return nil
}

func (r *recordingHistoryRepository) FindRecent(context.Context, string, int) ([]history.Record, error) {
	return r.records, nil
}

func newTestPracticeCLI(t *testing.T, input string, histories history.Repository, setupMock func(mock *mock_inference.MockClient)) (*PracticeCLI, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	if setupMock != nil {
		setupMock(mockClient)
	}

	out := &bytes.Buffer{}
	return &PracticeCLI{
		interviews:   interview.NewService(mockClient),
		histories:    histories,
		state:        gamification.State{Level: 1, Badges: []string{}},
		stdinReader:  bufio.NewReader(strings.NewReader(input)),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
		now: func() time.Time {
			return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		},
	}, out
}

func TestPracticeCLI_Session(t *testing.T) {
	ratingOf := func(v float64) *float64 { return &v }

	t.Run("one full round updates progress and saves history", func(t *testing.T) {
		histories := &recordingHistoryRepository{}
		cli, out := newTestPracticeCLI(t, "React\nThe virtual DOM lets React diff updates cheaply.\n", histories,
			func(mock *mock_inference.MockClient) {
				mock.EXPECT().
					GenerateQuestion(gomock.Any(), inference.GenerateQuestionRequest{Topic: "React"}).
					Return(inference.GenerateQuestionResponse{Question: "What is the virtual DOM?"}, nil)
				mock.EXPECT().
					EvaluateAnswer(gomock.Any(), gomock.Any()).
					Return(inference.EvaluateAnswerResponse{Feedback: "Good explanation.", Rating: ratingOf(8)}, nil)
			})

		require.NoError(t, cli.Session(context.Background()))

		assert.Equal(t, 8, cli.state.Points)
		assert.Equal(t, 1, cli.state.Streak)
		assert.Equal(t, "2026-08-30", cli.state.LastPracticedAt)

		require.Len(t, histories.records, 1)
		assert.Equal(t, "React", histories.records[0].Topic)
		assert.Equal(t, 8, histories.records[0].Rating)

		assert.Contains(t, out.String(), "What is the virtual DOM?")
		assert.Contains(t, out.String(), "Good explanation.")
		assert.Contains(t, out.String(), "Points: 8 | Level: 1 | Streak: 1 days")
	})

	t.Run("history save failure warns but does not end the round", func(t *testing.T) {
		histories := &recordingHistoryRepository{createErr: fmt.Errorf("connection refused")}
		cli, out := newTestPracticeCLI(t, "React\nA short answer.\n", histories,
			func(mock *mock_inference.MockClient) {
				mock.EXPECT().
					GenerateQuestion(gomock.Any(), gomock.Any()).
					Return(inference.GenerateQuestionResponse{Question: "What is the virtual DOM?"}, nil)
				mock.EXPECT().
					EvaluateAnswer(gomock.Any(), gomock.Any()).
					Return(inference.EvaluateAnswerResponse{Feedback: "Too short.", Rating: ratingOf(2)}, nil)
			})

		require.NoError(t, cli.Session(context.Background()))
		assert.Empty(t, histories.records)
		assert.Contains(t, out.String(), "Warning: could not save this session")
		assert.Equal(t, 2, cli.state.Points)
	})

	t.Run("quit ends the session loop", func(t *testing.T) {
		cli, out := newTestPracticeCLI(t, "quit\n", nil, nil)

		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
		assert.Contains(t, out.String(), "Practice session ended.")
	})

	t.Run("empty topic asks a general question", func(t *testing.T) {
		cli, _ := newTestPracticeCLI(t, "\nexit\n", nil,
			func(mock *mock_inference.MockClient) {
				mock.EXPECT().
					GenerateQuestion(gomock.Any(), inference.GenerateQuestionRequest{Topic: "general"}).
					Return(inference.GenerateQuestionResponse{Question: "Tell me about a recent project."}, nil)
			})

		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
	})

	t.Run("empty answer skips evaluation", func(t *testing.T) {
		cli, out := newTestPracticeCLI(t, "React\n\n", nil,
			func(mock *mock_inference.MockClient) {
				mock.EXPECT().
					GenerateQuestion(gomock.Any(), gomock.Any()).
					Return(inference.GenerateQuestionResponse{Question: "What is the virtual DOM?"}, nil)
			})

		require.NoError(t, cli.Session(context.Background()))
		assert.Contains(t, out.String(), "Empty answer, skipping evaluation.")
		assert.Equal(t, 0, cli.state.Points)
	})

	t.Run("rate limited question is marked as fallback", func(t *testing.T) {
		cli, out := newTestPracticeCLI(t, "React\nquit\n", nil,
			func(mock *mock_inference.MockClient) {
				mock.EXPECT().
					GenerateQuestion(gomock.Any(), gomock.Any()).
					Return(inference.GenerateQuestionResponse{}, &inference.RequestError{StatusCode: 429})
			})

		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
		assert.Contains(t, out.String(), "Rate limited: showing a fallback question.")
		assert.Contains(t, out.String(), interview.FallbackQuestion("React"))
	})

	t.Run("end of input ends the session", func(t *testing.T) {
		cli, _ := newTestPracticeCLI(t, "", nil, nil)
		err := cli.Session(context.Background())
		assert.ErrorIs(t, err, errEnd)
	})
}
