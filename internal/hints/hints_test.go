package hints

// Notes:
// - tests touching environment variables use t.Setenv and therefore do
//   not call t.Parallel
// - IsInContainer is swapped per test and restored with t.Cleanup

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, v bool) {
	t.Helper()
	orig := IsInContainer
	IsInContainer = func() bool { return v }
	t.Cleanup(func() { IsInContainer = orig })
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		container   bool
		wantContain []string
		wantExclude []string
	}{
		{
			name:        "CI without sandbox flag",
			env:         map[string]string{"CI": "true", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			wantContain: []string{"ROD_NO_SANDBOX=1", "ROD_BROWSER_BIN", "--engine native"},
		},
		{
			name:        "container with sandbox already disabled",
			env:         map[string]string{"CI": "", "GITHUB_ACTIONS": "", "GITLAB_CI": "", "JENKINS_URL": "", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": "/bin/chrome"},
			container:   true,
			wantContain: []string{"--engine native"},
			wantExclude: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
		{
			name:        "desktop",
			env:         map[string]string{"CI": "", "GITHUB_ACTIONS": "", "GITLAB_CI": "", "JENKINS_URL": "", "ROD_BROWSER_BIN": ""},
			wantContain: []string{"ROD_BROWSER_BIN"},
			wantExclude: []string{"ROD_NO_SANDBOX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			stubContainer(t, tt.container)

			got := ForBrowserConnect()
			if !strings.HasPrefix(got, "\n  hint: ") {
				t.Errorf("ForBrowserConnect() = %q, want hint prefix", got)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("ForBrowserConnect() = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.wantExclude {
				if strings.Contains(got, bad) {
					t.Errorf("ForBrowserConnect() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSimpleHints
// ---------------------------------------------------------------------------

func TestSimpleHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"ocr engine", ForOCREngine(), "--no-ocr"},
		{"rasterizer", ForRasterizer(), "MuPDF"},
		{"unsupported format", ForUnsupportedFormat(), "--list"},
		{"config with user path", ForConfigNotFound([]string{"a.yaml", "/home/u/.config/go-enclose/a.yaml"}), "or create /home/u/.config/go-enclose/a.yaml"},
		{"styles", ForStyleNotFound([]string{"default", "plain"}), "available: default, plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint %q missing %q", tt.got, tt.want)
			}
		})
	}
}

func TestForStyleNotFound_Empty(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
}
