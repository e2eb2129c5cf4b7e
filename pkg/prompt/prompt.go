// Package prompt asks the operator yes/no and free-text questions. Release
// steps depend on the Confirmer and Asker interfaces so that tests and
// non-interactive runs can answer without a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/wordwrap"

	"github.com/maranomynet/libtools/internal/log"
	"github.com/maranomynet/libtools/pkg/ui"
)

// ErrNoInput is returned when the input ends before an answer is given.
var ErrNoInput = errors.New("no answer: input closed")

const (
	retryQuestion = `Please enter "y" or "n"`
	fallbackWidth = 80
)

// Confirmer asks yes/no questions.
type Confirmer interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

// Asker asks free-text questions.
type Asker interface {
	Ask(ctx context.Context, question, def string) (string, error)
}

// Prompter asks both kinds of question.
type Prompter interface {
	Confirmer
	Asker
}

// Terminal prompts on a reader/writer pair, normally stdin and stdout.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	width  int
	styles ui.PromptStyles
}

// NewTerminal returns a Terminal reading answers from in and writing
// questions to out. Questions are wrapped to out's width when out is a TTY.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	width := fallbackWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(f.Fd()) {
		if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
			width = w
		}
	}

	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		width:  width,
		styles: ui.GetPromptStyles(),
	}
}

// Confirm asks question until it gets a yes or no. An empty answer picks def.
func (t *Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	for {
		line, err := t.ask(ctx, question, yesNoHint(def))
		if err != nil {
			return false, err
		}

		if answer, ok := parseYesNo(line, def); ok {
			return answer, nil
		}
		question = t.styles.Retry.Render(retryQuestion)
	}
}

// Ask asks question and returns the trimmed answer, or def when it is empty.
func (t *Terminal) Ask(ctx context.Context, question, def string) (string, error) {
	hint := ""
	if def != "" {
		hint = "(" + def + ")"
	}

	line, err := t.ask(ctx, question, hint)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}

	return line, nil
}

func (t *Terminal) ask(ctx context.Context, question, hint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wrapped := wordwrap.String(question, t.width)
	if _, err := fmt.Fprintf(t.out, "%s  %s  ", t.styles.Question.Render(wrapped), t.styles.Hint.Render(hint)); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}

	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func yesNoHint(def bool) string {
	if def {
		return "[Y]n"
	}
	return "y[N]"
}

func parseYesNo(answer string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// Defaults answers every question with its default, for CI and
// --non-interactive runs.
type Defaults struct{}

// Confirm returns def.
func (Defaults) Confirm(_ context.Context, question string, def bool) (bool, error) {
	slog.Debug("answering with default", slog.String(log.Question, question), slog.Bool(log.Answer, def))
	return def, nil
}

// Ask returns def.
func (Defaults) Ask(_ context.Context, question, def string) (string, error) {
	slog.Debug("answering with default", slog.String(log.Question, question), slog.String(log.Answer, def))
	return def, nil
}

// Scripted answers questions from a fixed queue and records what was asked.
type Scripted struct {
	Answers   []string
	Questions []string
}

// NewScripted returns a Scripted prompter holding answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

// Confirm pops the next answer. Unparseable answers are skipped the way a
// Terminal re-asks.
func (s *Scripted) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	for {
		line, err := s.next(ctx, question)
		if err != nil {
			return false, err
		}
		if answer, ok := parseYesNo(line, def); ok {
			return answer, nil
		}
		question = retryQuestion
	}
}

// Ask pops the next answer, returning def for an empty one.
func (s *Scripted) Ask(ctx context.Context, question, def string) (string, error) {
	line, err := s.next(ctx, question)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}

	return line, nil
}

func (s *Scripted) next(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return "", ErrNoInput
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]

	return strings.TrimSpace(answer), nil
}

// AskInt asks question and parses the answer as an integer. Unparseable
// answers yield def.
func AskInt(ctx context.Context, asker Asker, question string, def int) (int, error) {
	answer, err := asker.Ask(ctx, question, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		slog.Warn("not a number, using default", slog.String(log.Answer, answer), slog.Int(log.Default, def))
		return def, nil
	}

	return n, nil
}

// ForEnvironment returns Defaults when interactive is false and a Terminal
// on stdin/stdout otherwise.
func ForEnvironment(interactive bool) Prompter {
	if !interactive {
		return Defaults{}
	}
	return NewTerminal(os.Stdin, os.Stdout)
}
