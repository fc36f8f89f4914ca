package main

import "testing"

func TestRunReturns1OnUnknownSubcommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code != 1 {
		t.Fatalf("expected exit 1 for an unknown subcommand, got %d", code)
	}
}

func TestRunReturns1OnNoArguments(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit 1 with no arguments, got %d", code)
	}
}

func TestRunReturns1OnTooManyArguments(t *testing.T) {
	if code := run([]string{"compile", "extra"}); code != 1 {
		t.Fatalf("expected exit 1 with extra arguments, got %d", code)
	}
}
