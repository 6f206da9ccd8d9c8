// File: list_test.go
// Title: Error List Tests
// Description: Tests for error accumulation and aggregated rendering.
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial implementation

package error

import (
	"errors"
	"testing"
)

func TestListEmpty(t *testing.T) {
	list := NewList(ParseFailedSummary)
	if list.Err() != nil {
		t.Error("Err() on empty list should be nil")
	}
	list.Add(nil)
	if list.Len() != 0 {
		t.Errorf("Len() = %d, want 0", list.Len())
	}
	if list.Summary() != ParseFailedSummary {
		t.Errorf("Summary() = %q, want %q", list.Summary(), ParseFailedSummary)
	}
}

func TestListRender(t *testing.T) {
	list := NewList(ParseFailedSummary)
	list.Add(Syntax("first", 1, "a", "m.tn"))
	list.Add(Syntax("second", 4, "", "m.tn"))

	want := "Error in file: m.tn\nSyntax error near line 1: first\nFound near: a\n" +
		"Error in file: m.tn\nSyntax error near line 4: second\n" +
		"Parser error: Parsing failed\n"
	if got := list.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	err := list.Err()
	if err == nil {
		t.Fatal("Err() should not be nil")
	}
	var target *Error
	if !errors.As(err, &target) || target.Message() != "first" {
		t.Errorf("errors.As should reach the first member, got %v", target)
	}
	if !HasCode(err, CodeSyntax) {
		t.Error("HasCode should see list members")
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"single", Syntax("x", 1, "", "f"), 1},
		{"foreign", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Flatten(tt.err)); got != tt.want {
				t.Errorf("len(Flatten()) = %d, want %d", got, tt.want)
			}
		})
	}

	list := NewList("")
	list.Add(Syntax("a", 1, "", "f"))
	list.Add(errors.New("b"))
	flat := Flatten(list.Err())
	if len(flat) != 2 {
		t.Fatalf("len(Flatten(list)) = %d, want 2", len(flat))
	}
	if flat[1].Code() != CodeUnknown {
		t.Errorf("foreign member code = %v, want %v", flat[1].Code(), CodeUnknown)
	}
}
