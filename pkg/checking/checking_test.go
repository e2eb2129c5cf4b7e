package checking

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maranomynet/libtools/pkg/runner"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	// fail makes any command line containing the substring fail.
	fail string
}

func (r *recorder) run(_ context.Context, dir, cmd string, args ...string) error {
	line := strings.Join(append([]string{cmd}, args...), " ")
	r.mu.Lock()
	r.calls = append(r.calls, dir+": "+line)
	r.mu.Unlock()
	if r.fail != "" && strings.Contains(line, r.fail) {
		return errors.New("failed: " + line)
	}
	return nil
}

func opts(r *recorder) Options {
	return Options{Root: "/proj", Runner: runner.NPM, Run: r.run}
}

func TestLint_IgnoresFailures(t *testing.T) {
	r := &recorder{fail: "eslint"}
	require.NoError(t, Lint(context.Background(), opts(r)))
	assert.Equal(t, []string{
		"/proj: npm exec -- eslint --ignore-path .gitignore **/*.{cjs,js,ts,tsx}",
		"/proj: npm exec -- prettier --check --no-error-on-unmatched-pattern --ignore-path .gitignore **/*.{json,md,yml,css,html}",
	}, r.calls)
}

func TestErrorCheck(t *testing.T) {
	r := &recorder{}
	require.NoError(t, ErrorCheck(context.Background(), opts(r)))
	assert.Equal(t, []string{
		"/proj: npm exec -- eslint --quiet --ignore-path .gitignore **/*.{cjs,js,ts,tsx}",
		"/proj: npm exec -- tsc --project tsconfig.json --noEmit --pretty --incremental false",
	}, r.calls)
}

func TestErrorCheck_StopsAtFirstFailure(t *testing.T) {
	r := &recorder{fail: "eslint"}
	err := ErrorCheck(context.Background(), opts(r))
	require.ErrorContains(t, err, "eslint")
	assert.Len(t, r.calls, 1)
}

func TestErrorCheck_ContinueOnError(t *testing.T) {
	r := &recorder{fail: "--"}
	o := opts(r)
	o.ContinueOnError = true

	err := ErrorCheck(context.Background(), o)
	require.Error(t, err)
	assert.Len(t, r.calls, 2)
	assert.ErrorContains(t, err, "eslint")
	assert.ErrorContains(t, err, "tsc")
}

func TestFormat(t *testing.T) {
	r := &recorder{}
	o := opts(r)
	o.Runner = runner.Bun
	require.NoError(t, Format(context.Background(), o))
	assert.Equal(t, []string{
		"/proj: bun run --bun prettier --write --loglevel=error --no-error-on-unmatched-pattern --ignore-path .gitignore **/*.{json,md,yml,css,html}",
		"/proj: bun run --bun eslint --fix -o " + os.DevNull + " --ignore-path .gitignore **/*.{cjs,js,ts,tsx}",
	}, r.calls)
}

func TestTypeCheck(t *testing.T) {
	r := &recorder{}
	require.NoError(t, TypeCheck(context.Background(), opts(r), []string{"api", "./api/"}))

	calls := slices.Clone(r.calls)
	slices.Sort(calls)
	assert.Equal(t, []string{
		"/proj: npm exec -- tsc --project ./api/tsconfig.json --noEmit --pretty --incremental false",
		"/proj: npm exec -- tsc --project ./tsconfig.json --noEmit --pretty --incremental false",
	}, calls)
}

func TestTypeCheck_Failure(t *testing.T) {
	for _, continueOnError := range []bool{false, true} {
		r := &recorder{fail: "./api/"}
		o := opts(r)
		o.ContinueOnError = continueOnError

		err := TypeCheck(context.Background(), o, []string{"api"})
		require.ErrorContains(t, err, "./api/tsconfig.json")
	}
}
