package main

import (
	"context"
	"os"

	"github.com/maranomynet/libtools/cmd/libtools"
	"github.com/maranomynet/libtools/pkg/fatal"
)

func main() {
	os.Exit(actualMain())
}

// actualMain returns the exit code. fang has already printed the error, and
// the exit code of a failed external tool is passed through.
func actualMain() int {
	ctx := context.Background()

	rootCmd := libtools.NewRootCmd(ctx)

	return fatal.ExitStatus(libtools.ExecuteWithFang(ctx, rootCmd))
}
