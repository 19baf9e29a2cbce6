package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"github.com/alnah/go-enclose"
	"github.com/alnah/go-enclose/internal/config"
)

// runConvert handles `enclose <input> <format> [-o PATH]`.
func runConvert(ctx context.Context, args []string, f *cliFlags, cfg *config.Config, logger *log.Logger, env *Environment) error {
	switch len(args) {
	case 0:
		return ErrNoInput
	case 1:
		return fmt.Errorf("%w: missing output format for %s", ErrUsage, args[0])
	case 2:
	default:
		return fmt.Errorf("%w: too many arguments: %v", ErrUsage, args[2:])
	}

	to, err := enclose.ParseFormat(args[1])
	if err != nil {
		return err
	}

	opts, err := buildOptions(resolveConvertDir(f.output, to, cfg), f, cfg, logger, env)
	if err != nil {
		return err
	}
	p, err := enclose.NewProcessor(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Convert(ctx, args[0], to, f.output)
	if err != nil {
		return err
	}

	if !f.common.quiet {
		for _, out := range res.Outputs {
			fmt.Fprintf(env.Stdout, "Successfully created: %s\n", out)
		}
		if f.common.verbose {
			for _, mid := range res.Intermediates {
				fmt.Fprintf(env.Stdout, "  intermediate: %s\n", mid)
			}
		}
	}
	return nil
}

// resolveConvertDir picks the directory for intermediate files. -o names the
// target here, so the configured directory wins; otherwise intermediates go
// next to the target.
func resolveConvertDir(output string, to enclose.Format, cfg *config.Config) string {
	switch {
	case cfg.Output.Dir != "":
		return cfg.Output.Dir
	case output == "":
		return defaultOutputDir
	case to == enclose.FormatPNG && filepath.Ext(output) == "":
		return output
	}
	return filepath.Dir(output)
}

// printConversions prints the formats and the conversion matrix.
func printConversions(w io.Writer) {
	matrix := enclose.SupportedConversions()

	fmt.Fprintln(w, "Supported formats:")
	for _, format := range enclose.PipelineFormats() {
		fmt.Fprintf(w, "  %s\n", format)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversions:")
	for _, from := range enclose.PipelineFormats() {
		targets, ok := matrix[from]
		if !ok {
			continue
		}
		names := make([]string, 0, len(targets))
		for _, to := range targets {
			names = append(names, string(to))
		}
		fmt.Fprintf(w, "  %-4s -> %s\n", from, strings.Join(names, ", "))
	}
}
