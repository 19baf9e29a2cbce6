package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/assets"
	"github.com/alnah/go-enclose/internal/config"
	"github.com/alnah/go-enclose/internal/hints"
	"github.com/alnah/go-enclose/internal/ocr"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrUnknownStep = errors.New("unknown step")
	ErrNoInput     = errors.New("no input specified")
)

// run dispatches to the requested mode and returns the exit code.
func run(ctx context.Context, f *cliFlags, args []string, env *Environment) int {
	if f.list || (f.step == "" && len(args) == 1 && args[0] == "list") {
		printConversions(env.Stdout)
		return ExitSuccess
	}

	if f.step == "" {
		if len(args) == 0 {
			printUsage(env.Stdout)
			return ExitSuccess
		}
		switch args[0] {
		case "help":
			return runHelp(args[1:], env)
		case "version":
			fmt.Fprintf(env.Stdout, "enclose %s\n", Version)
			return ExitSuccess
		case "doctor":
			return runDoctorCmd(ctx, f, env)
		case "completion":
			return report(env, runCompletion(args[1:], env), "")
		}
	}

	loadDotEnv(env.Stderr)
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(f, envCfg)
	if err != nil {
		return report(env, err, hintFor(err, configName(f, envCfg)))
	}
	logger := newLogger(env.Stderr, f, cfg)

	switch {
	case f.step == "" && len(args) > 0 && args[0] == "validate":
		var dir string
		if dir, err = validateDir(args[1:], f, cfg); err == nil {
			err = runValidate(ctx, dir, f, logger, env)
		}
	case f.step != "":
		if len(args) > 0 {
			err = fmt.Errorf("%w: unexpected arguments with --step: %v", ErrUsage, args)
		} else {
			err = runStep(ctx, f, cfg, logger, env)
		}
	default:
		err = runConvert(ctx, args, f, cfg, logger, env)
	}
	return report(env, err, hintFor(err, ""))
}

// report prints err with its hint and returns the matching exit code.
func report(env *Environment, err error, hint string) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hint)
	return exitCodeFor(err)
}

// hintFor returns an actionable suggestion for err, or "".
func hintFor(err error, configName string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, enclose.ErrBrowserConnect),
		errors.Is(err, enclose.ErrPageCreate),
		errors.Is(err, enclose.ErrPageLoad):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, enclose.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, ocr.ErrNotInstalled):
		return hints.ForOCREngine()
	case errors.Is(err, enclose.ErrRasterize):
		return hints.ForRasterizer()
	case errors.Is(err, enclose.ErrUnsupportedFormat):
		return hints.ForUnsupportedFormat()
	case errors.Is(err, enclose.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
