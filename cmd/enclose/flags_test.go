package main

// Notes:
// - parseFlags: short and long forms, defaults, positional arguments and
//   unknown flags. pflag itself is not re-tested.

import (
	"errors"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		check    func(t *testing.T, f *cliFlags)
		wantArgs []string
	}{
		{
			name: "defaults",
			args: []string{"enclose"},
			check: func(t *testing.T, f *cliFlags) {
				if f.step != "" || f.output != "" || f.dpi != 0 || f.timeout != 0 {
					t.Errorf("unexpected non-zero defaults: %+v", f)
				}
				if f.ocr.disabled || f.open || f.list {
					t.Error("bool flags should default to false")
				}
			},
		},
		{
			name: "step mode",
			args: []string{"enclose", "--step", "process", "-o", "out", "-i", "doc.md", "--engine", "native"},
			check: func(t *testing.T, f *cliFlags) {
				if f.step != "process" {
					t.Errorf("step = %q, want process", f.step)
				}
				if f.output != "out" {
					t.Errorf("output = %q, want out", f.output)
				}
				if f.input != "doc.md" {
					t.Errorf("input = %q, want doc.md", f.input)
				}
				if f.engine != "native" {
					t.Errorf("engine = %q, want native", f.engine)
				}
			},
		},
		{
			name: "rendering and OCR",
			args: []string{"enclose", "--dpi", "200", "-t", "2m", "--no-ocr", "--ocr-lang", "eng+fra", "--legacy-ocr-key", "--no-page-images"},
			check: func(t *testing.T, f *cliFlags) {
				if f.dpi != 200 {
					t.Errorf("dpi = %v, want 200", f.dpi)
				}
				if f.timeout != 2*time.Minute {
					t.Errorf("timeout = %v, want 2m", f.timeout)
				}
				if !f.ocr.disabled || !f.ocr.legacy || !f.noPageImages {
					t.Errorf("bool flags not set: %+v", f.ocr)
				}
				if f.ocr.language != "eng+fra" {
					t.Errorf("ocr language = %q, want eng+fra", f.ocr.language)
				}
			},
		},
		{
			name: "common flags",
			args: []string{"enclose", "-c", "work", "-q", "-v"},
			check: func(t *testing.T, f *cliFlags) {
				if f.common.config != "work" || !f.common.quiet || !f.common.verbose {
					t.Errorf("common = %+v", f.common)
				}
			},
		},
		{
			name: "conversion positional args",
			args: []string{"enclose", "notes.md", "pdf", "-o", "notes.pdf"},
			check: func(t *testing.T, f *cliFlags) {
				if f.output != "notes.pdf" {
					t.Errorf("output = %q, want notes.pdf", f.output)
				}
			},
			wantArgs: []string{"notes.md", "pdf"},
		},
		{
			name: "aggregate flags",
			args: []string{"enclose", "--step", "aggregate", "--search-dir", "svgs", "--open", "--metadata-name", "run.json"},
			check: func(t *testing.T, f *cliFlags) {
				if f.searchDir != "svgs" || !f.open || f.metadataName != "run.json" {
					t.Errorf("flags = %+v", f)
				}
			},
		},
		{
			name: "doctor json",
			args: []string{"enclose", "doctor", "--json"},
			check: func(t *testing.T, f *cliFlags) {
				if !f.json {
					t.Error("json should be set")
				}
			},
			wantArgs: []string{"doctor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, args, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags() error = %v", err)
			}
			tt.check(t, f)
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"unknown flag", []string{"enclose", "--bogus"}, false},
		{"bad duration", []string{"enclose", "--timeout", "soon"}, false},
		{"bad dpi", []string{"enclose", "--dpi", "high"}, false},
		{"help", []string{"enclose", "-h"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := parseFlags(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, flag.ErrHelp); got != tt.help {
				t.Errorf("errors.Is(err, ErrHelp) = %v, want %v", got, tt.help)
			}
		})
	}
}
