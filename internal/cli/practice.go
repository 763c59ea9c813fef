// Package cli implements the interactive practice session for the terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/interview"
)

var errEnd = errors.New("end of practice session")

// PracticeCLI manages the interactive CLI practice session
type PracticeCLI struct {
	interviews   *interview.Service
	histories    history.Repository
	state        gamification.State
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	now          func() time.Time
}

// NewPracticeCLI creates a new interactive practice CLI. The history
// repository is optional; without it, sessions are not persisted.
func NewPracticeCLI(interviews *interview.Service, histories history.Repository) *PracticeCLI {
	return &PracticeCLI{
		interviews:   interviews,
		histories:    histories,
		state:        gamification.State{Level: 1, Badges: []string{}},
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

// Run drives practice sessions until the user quits or interrupts.
func (cli *PracticeCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	fmt.Fprintln(cli.stdoutWriter, "Smart Guide interview practice. Type 'quit' or 'exit' to stop.")

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session runs one question and answer round.
func (cli *PracticeCLI) Session(ctx context.Context) error {
	fmt.Fprint(cli.stdoutWriter, "Topic (empty for general): ")
	topicInput, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEnd
		}
		return fmt.Errorf("error reading topic input: %w", err)
	}
	topic := strings.TrimSpace(topicInput)

	if topic == "quit" || topic == "exit" {
		cli.printSummary()
		return errEnd
	}

	question, err := cli.interviews.GenerateQuestion(ctx, topic)
	if err != nil {
		return fmt.Errorf("interviews.GenerateQuestion() > %w", err)
	}
	if question.Fallback {
		fmt.Fprintln(cli.stdoutWriter, "Rate limited: showing a fallback question.")
	}
	cli.bold.Fprintf(cli.stdoutWriter, "\n%s\n\n", question.Question)

	fmt.Fprint(cli.stdoutWriter, "Answer: ")
	answerInput, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEnd
		}
		return fmt.Errorf("error reading answer input: %w", err)
	}
	answer := strings.TrimSpace(answerInput)
	if answer == "quit" || answer == "exit" {
		cli.printSummary()
		return errEnd
	}
	if answer == "" {
		fmt.Fprintln(cli.stdoutWriter, "Empty answer, skipping evaluation.")
		return nil
	}

	evaluation, err := cli.interviews.EvaluateAnswer(ctx, question.Question, answer)
	if err != nil {
		return fmt.Errorf("interviews.EvaluateAnswer() > %w", err)
	}

	cli.printEvaluation(evaluation)

	cli.state = gamification.Apply(cli.state, evaluation.Rating, cli.today())
	fmt.Fprintf(cli.stdoutWriter, "Points: %d | Level: %d | Streak: %d days\n",
		cli.state.Points, cli.state.Level, cli.state.Streak)
	if len(cli.state.Badges) > 0 {
		fmt.Fprintf(cli.stdoutWriter, "Badges: %s\n", strings.Join(cli.state.Badges, ", "))
	}
	fmt.Fprintln(cli.stdoutWriter)

	if cli.histories != nil {
		record := history.Record{
			Topic:    question.Topic,
			Question: question.Question,
			Answer:   answer,
			Feedback: evaluation.Feedback,
			Rating:   evaluation.Rating,
		}
		if err := cli.histories.Create(ctx, &record); err != nil {
			fmt.Fprintf(cli.stdoutWriter, "Warning: could not save this session: %v\n", err)
		}
	}
	return nil
}

func (cli *PracticeCLI) printEvaluation(evaluation interview.Evaluation) {
	rating := evaluation.Rating
	switch {
	case rating >= 7:
		color.Green("Rating: %d/10", rating)
	case rating >= 4:
		color.Yellow("Rating: %d/10", rating)
	default:
		color.Red("Rating: %d/10", rating)
	}
	fmt.Fprintf(cli.stdoutWriter, "%s\n", evaluation.Feedback)
	if evaluation.Fallback {
		fmt.Fprintln(cli.stdoutWriter, "This evaluation used the offline heuristic.")
	}
}

func (cli *PracticeCLI) printSummary() {
	fmt.Fprintf(cli.stdoutWriter, "Practice session ended. Points: %d, level: %d, streak: %d.\n",
		cli.state.Points, cli.state.Level, cli.state.Streak)
}

func (cli *PracticeCLI) today() time.Time {
	if cli.now != nil {
		return cli.now()
	}
	return time.Now()
}
