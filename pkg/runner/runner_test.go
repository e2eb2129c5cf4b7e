package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		lockFiles []string
		want      Runner
	}{
		{"no lock file", nil, NPM},
		{"package-lock", []string{"package-lock.json"}, NPM},
		{"yarn", []string{"yarn.lock"}, Yarn},
		{"bun binary lock", []string{"bun.lockb"}, Bun},
		{"bun text lock", []string{"bun.lock"}, Bun},
		{"bun wins over yarn", []string{"yarn.lock", "bun.lockb"}, Bun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.lockFiles {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
			}
			assert.Equal(t, tt.want, Detect(dir))
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, Yarn, Parse("yarn", Bun))
	assert.Equal(t, NPM, Parse(" NPM ", Bun))
	assert.Equal(t, Bun, Parse("", Bun))
	assert.Equal(t, Bun, Parse("pnpm", Bun), "unknown names fall back to the detected default")
}

func TestPrefixes(t *testing.T) {
	tests := []struct {
		runner Runner
		script []string
		bin    []string
	}{
		{NPM, []string{"npm", "run"}, []string{"npm", "exec", "--"}},
		{Yarn, []string{"yarn", "run"}, []string{"yarn", "run"}},
		{Bun, []string{"bun", "run", "--bun"}, []string{"bun", "run", "--bun"}},
	}

	for _, tt := range tests {
		t.Run(tt.runner.String(), func(t *testing.T) {
			assert.Equal(t, tt.script, tt.runner.ScriptPrefix())
			assert.Equal(t, tt.bin, tt.runner.BinPrefix())
		})
	}
}

func TestBinCommand(t *testing.T) {
	cmd, args := NPM.BinCommand("tsc", "--noEmit")
	assert.Equal(t, "npm", cmd)
	assert.Equal(t, []string{"exec", "--", "tsc", "--noEmit"}, args)

	cmd, args = Bun.ScriptCommand("build")
	assert.Equal(t, "bun", cmd)
	assert.Equal(t, []string{"run", "--bun", "build"}, args)
}

func TestSet(t *testing.T) {
	var r Runner
	require.NoError(t, r.Set("Yarn"))
	assert.Equal(t, Yarn, r)
	require.Error(t, r.Set("pnpm"))
	assert.Equal(t, Yarn, r)
	assert.Equal(t, "runner", r.Type())
}
