package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	f, args, err := parseFlags(os.Args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		os.Exit(ExitSuccess)
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printUsage(env.Stderr)
		os.Exit(ExitUsage)
	}

	// maxprocs.Set only fails on an invalid GOMAXPROCS env, in which case
	// runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(f.common.verbose, env.Stderr)))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, f, args, env)
	stop()
	os.Exit(code)
}

// maxprocsLogger writes to w in verbose mode and discards otherwise.
func maxprocsLogger(verbose bool, w io.Writer) func(string, ...interface{}) {
	if !verbose {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}
}
