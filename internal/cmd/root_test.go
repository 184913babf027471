package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with an isolated home directory and returns
// stdout and stderr separately.
func execute(t *testing.T, home, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--home", home, "--no-color"}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeLicenses creates a folder with two license texts and one file that is
// not eligible for searching.
func writeLicenses(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"mit.txt": "MIT License\n\nCopyright (c) <year> <copyright holders>\n\n" +
			"Permission is hereby granted, free of charge, to any person obtaining a copy\n\n" +
			"THE SOFTWARE IS PROVIDED \"AS IS\", WITHOUT WARRANTY OF ANY KIND.",
		"apache.txt": "Apache License\nVersion 2.0, January 2004\n\n" +
			"You may obtain a copy of the License at\n\n" +
			"Unless required by applicable law, software is distributed WITHOUT WARRANTIES OR CONDITIONS.",
		"notes.md": "warranty notes that must never be searched",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// readCSVRows returns the data rows of a CSV export, header excluded.
func readCSVRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	if len(rows) == 0 || rows[0][0] != "title" {
		t.Fatalf("%s has no CSV header: %v", path, rows)
	}
	return rows[1:]
}

// dirEntries lists the names in dir.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestRootCommand(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "--help")
	if err != nil {
		t.Fatalf("--help returned error: %v", err)
	}

	if !strings.Contains(out, "licensesearch") {
		t.Errorf("Help text should contain 'licensesearch', got: %s", out)
	}
	for _, sub := range []string{"search", "interactive", "history"} {
		if !strings.Contains(out, sub) {
			t.Errorf("Help text should list %q, got: %s", sub, out)
		}
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "licensesearch" {
		t.Errorf("Expected Use to be 'licensesearch', got '%s'", cmd.Use)
	}

	want := map[string]bool{"search": false, "interactive": false, "history": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "--version")
	if err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("Version output should contain %q, got: %s", Version, out)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("log_level: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, home, "", "search", t.TempDir(), "mit")
	if err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
	if Silent(err) {
		t.Error("configuration errors should be printed by the caller")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: os.ErrNotExist, want: 1},
		{name: "exit error", err: &ExitError{Code: 2}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
