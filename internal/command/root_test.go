package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/cyue/lantern/internal/types"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandVersion(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "lantern version test") {
		t.Fatalf("expected version output, got %q", output)
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "Prism Grail") {
		t.Fatalf("expected help output, got %q", output)
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"3", 3, false},
		{"0", 0, true},
		{"4", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSlot(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseSlot(%q): expected error", tt.arg)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseSlot(%q): %v", tt.arg, err)
		}
		if got != tt.want {
			t.Fatalf("parseSlot(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestFormatSlot(t *testing.T) {
	name := "阿岩"
	chapter := "第一章"

	empty := formatSlot(types.SaveSlot{Slot: 2, IsEmpty: true})
	if !strings.Contains(empty, "(empty)") {
		t.Fatalf("expected empty marker, got %q", empty)
	}

	full := formatSlot(types.SaveSlot{Slot: 1, CharacterName: &name, Chapter: &chapter})
	if !strings.Contains(full, "阿岩") || !strings.Contains(full, "第一章") {
		t.Fatalf("expected name and chapter, got %q", full)
	}
}
