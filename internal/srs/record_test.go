package srs

import (
	"testing"
	"time"
)

func TestEnsure(t *testing.T) {
	store := Store{}

	rec := store.Ensure("r-9")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Stage != 0 || rec.Mastered || rec.NextDue != nil || rec.LastReviewed != nil {
		t.Errorf("expected zero-state record, got %+v", rec)
	}

	rec.Stage = 3
	again := store.Ensure("r-9")
	if again != rec {
		t.Error("Ensure must return the existing record on repeated calls")
	}
	if again.Stage != 3 {
		t.Errorf("expected existing state preserved, got stage %d", again.Stage)
	}
}

func TestReset(t *testing.T) {
	store := Store{}
	rec := store.Ensure("r-9")
	now := time.Now()
	ApplyOutcome(rec, true, now)
	ApplyOutcome(rec, true, now)

	store.Reset("r-9")
	fresh := store["r-9"]
	if fresh.Stage != 0 || fresh.Mastered || fresh.Correct != 0 || fresh.NextDue != nil {
		t.Errorf("expected zero-state record after reset, got %+v", fresh)
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	testCases := []struct {
		name     string
		rec      *Record
		expected bool
	}{
		{name: "nil record", rec: nil, expected: false},
		{name: "never scheduled", rec: &Record{}, expected: false},
		{name: "due in the past", rec: &Record{NextDue: &past}, expected: true},
		{name: "due exactly now", rec: &Record{NextDue: &now}, expected: true},
		{name: "due in the future", rec: &Record{NextDue: &future}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.IsDue(now); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestMasteredCount(t *testing.T) {
	store := Store{
		"a": {Mastered: true},
		"b": {},
		"c": {Mastered: true},
	}
	if got := store.MasteredCount(); got != 2 {
		t.Errorf("expected 2 mastered, got %d", got)
	}
}
