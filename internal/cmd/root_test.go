package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("Root command should not be nil")
	}

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("--help should not error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "daiacheck") {
		t.Errorf("Help text should contain 'daiacheck', got: %s", output)
	}
	if !strings.Contains(output, "DAIA") {
		t.Errorf("Help text should mention DAIA, got: %s", output)
	}
	for _, flag := range []string{"--base", "--from", "--coverage", "--tap", "--code"} {
		if !strings.Contains(output, flag) {
			t.Errorf("Help text should list %s, got: %s", flag, output)
		}
	}
}

func TestRootCommandHasHistorySubcommand(t *testing.T) {
	cmd := NewRootCommand()

	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "history" {
			found = true
		}
	}
	if !found {
		t.Error("Expected history subcommand")
	}
}

func TestRootCommandRejectsTooManyArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"DE-7", "1", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for more than two positional arguments")
	}
}
