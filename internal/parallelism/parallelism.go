// Package parallelism decides how many post-processing and type-check jobs
// run at once.
package parallelism

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// NumProcessorsEnv overrides the job limit.
const NumProcessorsEnv = "LIBTOOLS_NUM_PROCESSORS"

// Limit returns the number of concurrent jobs: NumProcessorsEnv when set to
// a positive integer, runtime.NumCPU otherwise. A malformed value is
// reported alongside the fallback.
func Limit() (int, error) {
	raw := strings.TrimSpace(os.Getenv(NumProcessorsEnv))
	if raw == "" {
		return runtime.NumCPU(), nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return runtime.NumCPU(), fmt.Errorf("%s=%q is not a positive integer", NumProcessorsEnv, raw)
	}

	return n, nil
}
