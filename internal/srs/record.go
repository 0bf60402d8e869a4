package srs

import "time"

// Record tracks the review history and scheduling state of one learnable
// item (a radical, word, or grammar point).
type Record struct {
	Mastered     bool       `json:"mastered"`
	Stage        int        `json:"stage"`
	NextDue      *time.Time `json:"nextDue"`      // nil until the first review
	LastReviewed *time.Time `json:"lastReviewed"` // nil until the first review
	Correct      int        `json:"correct"`
	Wrong        int        `json:"wrong"`
}

// Store maps item ids to their review records. Absence of a key means the
// item has never been reviewed.
type Store map[string]*Record

// NewRecord returns a zero-state record.
func NewRecord() *Record {
	return &Record{}
}

// Ensure returns the record for id, creating and inserting a fresh
// zero-state record if none exists yet.
func (s Store) Ensure(id string) *Record {
	if rec, ok := s[id]; ok {
		return rec
	}
	rec := NewRecord()
	s[id] = rec
	return rec
}

// Reset overwrites the record for id with a fresh zero-state record.
// Used to unmark a mastered item.
func (s Store) Reset(id string) {
	s[id] = NewRecord()
}

// IsDue reports whether the record is eligible for review at now.
// A nil record or a record that has never been scheduled is not due.
func (r *Record) IsDue(now time.Time) bool {
	if r == nil || r.NextDue == nil {
		return false
	}
	return !r.NextDue.After(now)
}

// MasteredCount counts records currently flagged as mastered.
func (s Store) MasteredCount() int {
	n := 0
	for _, rec := range s {
		if rec.Mastered {
			n++
		}
	}
	return n
}
