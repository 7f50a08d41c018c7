package tasklist

import (
	"errors"
	"testing"
)

func TestNewDraft(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		desc      string
		wantTitle string
		wantDesc  string
		wantErr   error
	}{
		{"trimmed", "  Buy milk ", " 2 liters ", "Buy milk", "2 liters", nil},
		{"no description", "Buy milk", "", "Buy milk", "", nil},
		{"blank title", "   ", "desc", "", "", ErrTitleRequired},
		{"empty title", "", "", "", "", ErrTitleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDraft(tt.title, tt.desc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if d.Title != tt.wantTitle || d.Description != tt.wantDesc {
				t.Errorf("unexpected draft %+v", d)
			}
		})
	}
}

func TestDraft_UpdateCarriesBothFields(t *testing.T) {
	d, _ := NewDraft("A", "")
	u := d.Update()
	if u.Title == nil || *u.Title != "A" {
		t.Errorf("unexpected title %v", u.Title)
	}
	if u.Description == nil || *u.Description != "" {
		t.Errorf("expected empty description to be sent, got %v", u.Description)
	}
}

func TestPartialUpdate(t *testing.T) {
	blank := "  "
	desc := " d "
	if _, err := PartialUpdate(&blank, nil); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	u, err := PartialUpdate(nil, &desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Title != nil {
		t.Error("title should be left unset")
	}
	if *u.Description != "d" {
		t.Errorf("expected trimmed description, got %q", *u.Description)
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		"Active":    FilterActive,
		"COMPLETED": FilterCompleted,
	}
	for in, want := range tests {
		got, err := ParseFilter(in)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFilter(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if FilterCompleted.Next() != FilterAll {
		t.Error("expected filter cycle to wrap")
	}
}
