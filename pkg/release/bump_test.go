package release

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/prompt"
)

const changelogFixture = "# Change Log\n\n## Upcoming\n\n" +
	"- ... <!-- Add new lines here. -->\n\n" +
	"- feat: Shiny\n\n" +
	"## 1.2.3\n\n- fix: Old\n"

const pkgFixture = "{\n  \"name\": \"@x/lib\",\n  \"version\": \"1.2.3\",\n  \"private\": false\n}\n"

type memWriter struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memWriter) write(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.files[path] = string(data)
	return nil
}

func project(t *testing.T, changelogText string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(pkgFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "CHANGELOG.md"), []byte(changelogText), 0o644))
	return root
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestBump(t *testing.T) {
	root := project(t, changelogFixture)
	mem := &memWriter{}
	answers := prompt.NewScripted("y")
	var out bytes.Buffer

	res, err := Bump(context.Background(), BumpOptions{
		Root:         root,
		Prompter:     answers,
		Output:       &out,
		PlainPreview: true,
		Now:          fixedNow,
		WriteFile:    mem.write,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.3.0", res.NewVersion)
	assert.Equal(t, []string{"New version: 1.3.0\nIs this correct?"}, answers.Questions)
	assert.Equal(t, "1.2.3 → 1.3.0 (2025-03-01)\n\n- feat: Shiny\n\n", out.String())

	assert.Equal(t, "{\n  \"name\": \"@x/lib\",\n  \"version\": \"1.3.0\",\n  \"private\": false\n}\n",
		mem.files[filepath.Join(root, "package.json")])
	assert.Contains(t, mem.files[filepath.Join(root, "CHANGELOG.md")], "## 1.3.0\n\n_2025-03-01_\n\n- feat: Shiny")
}

func TestBump_Rejected(t *testing.T) {
	root := project(t, changelogFixture)
	mem := &memWriter{}

	_, err := Bump(context.Background(), BumpOptions{
		Root:      root,
		Prompter:  prompt.NewScripted("n"),
		WriteFile: mem.write,
	})
	require.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, mem.files)
}

func TestBump_NothingToRelease(t *testing.T) {
	root := project(t, "## Upcoming\n\n- chore: tidy\n\n## 1.2.3\n")

	_, err := Bump(context.Background(), BumpOptions{Root: root, WriteFile: (&memWriter{}).write})
	assert.Equal(t, changelog.ErrNothingToRelease, err)
}

func TestBump_PreReleaseAndDateShift(t *testing.T) {
	root := project(t, changelogFixture)
	mem := &memWriter{}
	answers := prompt.NewScripted("3", "yes")

	res, err := Bump(context.Background(), BumpOptions{
		Root:           root,
		PreReleaseName: "rc.1",
		OfferDateShift: true,
		Prompter:       answers,
		Now:            fixedNow,
		WriteFile:      mem.write,
	})
	require.NoError(t, err)

	assert.Equal(t, "1.3.0-rc.1", res.NewVersion)
	assert.Equal(t, "2025-03-04", res.Date)
	assert.Equal(t, dateShiftQuestion, answers.Questions[0])
}

func TestBump_ZeroMajorPromotion(t *testing.T) {
	text := "## Upcoming\n\n- **BREAKING** Everything\n\n## 0.4.2\n"
	root := project(t, text)
	answers := prompt.NewScripted("y", "y")

	res, err := Bump(context.Background(), BumpOptions{
		Root:              root,
		ZeroMajorUnstable: true,
		Prompter:          answers,
		WriteFile:         (&memWriter{}).write,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", res.NewVersion)
	assert.Equal(t, promoteQuestion, answers.Questions[0])
}

func TestBump_VerifyGit(t *testing.T) {
	tests := []struct {
		name       string
		crossCheck func(string, changelog.Version, bool) (bool, string, error)
		want       string
	}{
		{
			name:       "agrees",
			crossCheck: func(string, changelog.Version, bool) (bool, string, error) { return true, "1.3.0", nil },
			want:       "1.3.0",
		},
		{
			name:       "disagrees",
			crossCheck: func(string, changelog.Version, bool) (bool, string, error) { return false, "2.0.0", nil },
			want:       "2.0.0",
		},
		{
			name:       "git unavailable",
			crossCheck: func(string, changelog.Version, bool) (bool, string, error) { return false, "", errors.New("no git") },
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := project(t, changelogFixture)
			res, err := Bump(context.Background(), BumpOptions{
				Root:       root,
				VerifyGit:  true,
				CrossCheck: tt.crossCheck,
				WriteFile:  (&memWriter{}).write,
			})
			require.NoError(t, err)
			assert.Equal(t, "1.3.0", res.NewVersion)
			assert.Equal(t, tt.want, res.GitSuggestion)
		})
	}
}

func TestBump_VerifyGitInRoot(t *testing.T) {
	root := project(t, changelogFixture)
	var gotDir string
	var gotUnstable bool

	_, err := Bump(context.Background(), BumpOptions{
		Root:              root,
		VerifyGit:         true,
		ZeroMajorUnstable: true,
		CrossCheck: func(dir string, _ changelog.Version, zeroMajorUnstable bool) (bool, string, error) {
			gotDir, gotUnstable = dir, zeroMajorUnstable
			return true, "1.3.0", nil
		},
		WriteFile: (&memWriter{}).write,
	})
	require.NoError(t, err)
	assert.Equal(t, root, gotDir)
	assert.True(t, gotUnstable)
}

func TestBump_WriteFailure(t *testing.T) {
	root := project(t, changelogFixture)
	boom := errors.New("disk full")

	_, err := Bump(context.Background(), BumpOptions{
		Root:      root,
		WriteFile: func(string, []byte) error { return boom },
	})
	require.ErrorIs(t, err, boom)
}

func TestPlan_WritesNothing(t *testing.T) {
	root := project(t, changelogFixture)

	res, err := Plan(context.Background(), BumpOptions{Root: root, Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", res.NewVersion)

	data, err := os.ReadFile(filepath.Join(root, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, changelogFixture, string(data))
}

func TestPlan_MissingChangelog(t *testing.T) {
	_, err := Plan(context.Background(), BumpOptions{Root: t.TempDir()})
	require.ErrorContains(t, err, "reading changelog")
}
