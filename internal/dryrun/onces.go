//nolint:gochecknoglobals // Once/atomic patterns.
package dryrun

import (
	"sync"
	"sync/atomic"
)

var (
	dryRunRequestedValue    atomic.Bool
	dryRunRequestedEnvValue bool
	dryRunRequestedEnvOnce  sync.Once
)
