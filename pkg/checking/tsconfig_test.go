package checking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTSConfigPaths(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "nil",
			input: nil,
			want:  []string{"./tsconfig.json"},
		},
		{
			name:  "empty",
			input: []string{},
			want:  []string{"./tsconfig.json"},
		},
		{
			name:  "directories",
			input: []string{"a", "b/c", "d/e/f/"},
			want: []string{
				"./tsconfig.json",
				"./a/tsconfig.json",
				"./b/c/tsconfig.json",
				"./d/e/f/tsconfig.json",
			},
		},
		{
			name:  "custom json files",
			input: []string{"b/tsconfig.json", "d/e/f.json/", "foo.json", "tsconfig.json/"},
			want: []string{
				"./tsconfig.json",
				"./b/tsconfig.json",
				"./d/e/f.json/tsconfig.json",
				"./foo.json",
				"./tsconfig.json/tsconfig.json",
			},
		},
		{
			name: "duplicates collapse",
			input: []string{
				".",
				"./",
				"tsconfig.json",
				"api-server",
				"./tsconfig.json",
				"././//./tsconfig.json",
				"./api-server///tsconfig.json",
			},
			want: []string{"./tsconfig.json", "./api-server/tsconfig.json"},
		},
		{
			name:  "surrounding whitespace",
			input: []string{"  pkg  "},
			want:  []string{"./tsconfig.json", "./pkg/tsconfig.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTSConfigPaths(tt.input))
		})
	}
}
