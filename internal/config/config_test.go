package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Selection.MaxFiles != 20 {
		t.Errorf("expected default max_files 20, got %d", cfg.Selection.MaxFiles)
	}
	if cfg.Selection.DiscoveryInterval != 5 {
		t.Errorf("expected default discovery_interval 5, got %d", cfg.Selection.DiscoveryInterval)
	}
	if cfg.Quiz.SpacedRepetition.MaxLevel != 5 {
		t.Errorf("expected default max_level 5, got %d", cfg.Quiz.SpacedRepetition.MaxLevel)
	}
	want := []int{1, 3, 7, 14, 30, 60}
	if len(cfg.Quiz.SpacedRepetition.Intervals) != len(want) {
		t.Fatalf("unexpected default intervals: %v", cfg.Quiz.SpacedRepetition.Intervals)
	}
	for i, d := range want {
		if cfg.Quiz.SpacedRepetition.Intervals[i] != d {
			t.Errorf("intervals[%d]: expected %d, got %d", i, d, cfg.Quiz.SpacedRepetition.Intervals[i])
		}
	}
	if cfg.OutputFolderName != "_briefings" {
		t.Errorf("expected default output folder _briefings, got %s", cfg.OutputFolderName)
	}
	if len(cfg.TargetExtensions) != 1 || cfg.TargetExtensions[0] != ".md" {
		t.Errorf("unexpected default extensions: %v", cfg.TargetExtensions)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input_folders:
  - /notes/work
  - /notes/personal
file_selection:
  max_files: 30
quiz:
  spaced_repetition:
    max_level: 7
    intervals: [1, 2, 4, 8, 16, 32, 64, 128]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.InputFolders) != 2 {
		t.Errorf("expected 2 input folders, got %v", cfg.InputFolders)
	}
	if cfg.Selection.MaxFiles != 30 {
		t.Errorf("expected max_files 30 from file, got %d", cfg.Selection.MaxFiles)
	}
	// Unset values keep their defaults.
	if cfg.Selection.DiscoveryInterval != 5 {
		t.Errorf("expected default discovery_interval kept, got %d", cfg.Selection.DiscoveryInterval)
	}
	if cfg.Quiz.SpacedRepetition.MaxLevel != 7 {
		t.Errorf("expected max_level 7 from file, got %d", cfg.Quiz.SpacedRepetition.MaxLevel)
	}
	if len(cfg.Quiz.SpacedRepetition.Intervals) != 8 {
		t.Errorf("expected 8 intervals from file, got %v", cfg.Quiz.SpacedRepetition.Intervals)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NOTEBRIEF_FILE_SELECTION__MAX_FILES", "42")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Selection.MaxFiles != 42 {
		t.Errorf("expected env override 42, got %d", cfg.Selection.MaxFiles)
	}
}

func TestFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("file_selection.max_files", 20, "")
	if err := flags.Parse([]string{"--file_selection.max_files=25"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Selection.MaxFiles != 25 {
		t.Errorf("expected flag override 25, got %d", cfg.Selection.MaxFiles)
	}
}

func TestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("file_selection:\n  max_files: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, nil); err == nil {
		t.Error("expected validation to reject max_files 0")
	}
}
