package main

import (
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	expected := []string{
		"transcribe", "add", "queue",
		"start", "stop", "restart", "status",
		"daemon", "run", "logs", "test-notify", "config",
	}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestQueueCommandSubcommands(t *testing.T) {
	root := newRootCommand()
	queueCmd, _, err := root.Find([]string{"queue"})
	if err != nil {
		t.Fatalf("find queue command: %v", err)
	}
	expected := []string{"status", "list", "show", "clear", "reset", "retry", "remove", "health"}
	registered := make(map[string]bool)
	for _, cmd := range queueCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("queue subcommand %q not registered", name)
		}
	}
}

func TestParsePositiveIDs(t *testing.T) {
	ids, err := parsePositiveIDs([]string{"1", " 42 "})
	if err != nil {
		t.Fatalf("parsePositiveIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 42 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := parsePositiveIDs([]string{"0"}); err == nil {
		t.Fatal("expected error for non-positive id")
	}
	if _, err := parsePositiveIDs([]string{"abc"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
