package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		wantErr   string
		wantCheck func(Config) bool
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			wantCheck: func(c Config) bool {
				return c.Scan.UnusedAfter == "180 days" && c.Recover.OnConflict == "fail"
			},
		},
		{
			name: "override scan threshold",
			content: `
scan:
  unused_after: 90 days
`,
			wantCheck: func(c Config) bool {
				d, err := c.Scan.Threshold()
				return err == nil && d == 90*24*time.Hour
			},
		},
		{
			name: "deprecated threshold_days is migrated",
			content: `
scan:
  unused_after: 180 days
  threshold_days: 30
`,
			wantCheck: func(c Config) bool {
				return c.Scan.UnusedAfter == "30 days" && c.Scan.ThresholdDays == 0
			},
		},
		{
			name: "invalid conflict policy",
			content: `
recover:
  on_conflict: merge
`,
			wantErr: "on_conflict",
		},
		{
			name: "invalid size",
			content: `
scan:
  exclude:
    size:
      min: 10 apples
`,
			wantErr: "min",
		},
		{
			name: "invalid duration",
			content: `
scan:
  unused_after: someday
`,
			wantErr: "unused_after",
		},
		{
			name: "invalid color",
			content: `
ui:
  style:
    unused: yellow
`,
			wantErr: "unused",
		},
		{
			name:    "broken yaml",
			content: "scan: [",
			wantErr: "failed to parse config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(writeConfig(t, tc.content))
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tc.wantErr)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tc.wantCheck(cfg) {
				t.Errorf("Unexpected config: %+v", cfg)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "Example YAML file contents") {
		t.Errorf("Expected example contents in error, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	initParser()
	if err := validate.Struct(*NewDefaultConfig()); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
}
