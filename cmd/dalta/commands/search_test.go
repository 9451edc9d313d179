// ABOUTME: Tests for search command
// ABOUTME: Verifies command structure, flag defaults, and transcript parsing

package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSearchCmd(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Use != "search <query>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "search <query>")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestSearchCmd_Flags(t *testing.T) {
	cmd := NewSearchCmd()

	limitFlag := cmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("--limit flag not found")
	}
	if limitFlag.DefValue != "10" {
		t.Errorf("--limit default = %q, want %q", limitFlag.DefValue, "10")
	}

	if cmd.Flags().Lookup("transcript") == nil {
		t.Fatal("--transcript flag not found")
	}
}

func TestSearchCmd_ArgsValidation(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}

func TestLoadTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	content := `[
		{"conversation_id": "c1", "message_id": "m1", "content": "hello"},
		{"conversation_id": "c1", "message_id": "m2", "content": "world"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing transcript: %v", err)
	}

	messages, err := loadTranscript(path)
	if err != nil {
		t.Fatalf("loadTranscript failed: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ConversationID != "c1" || messages[0].MessageID != "m1" || messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
}

func TestLoadTranscript_MissingFile(t *testing.T) {
	if _, err := loadTranscript(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadTranscript_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := loadTranscript(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
