package srs

import "time"

// Intervals is the fixed ladder of review offsets, in days, indexed by
// consecutive-success stage. A wrong answer always reschedules one day out.
var Intervals = []int{1, 3, 7, 14, 30, 45}

// MaxStage is the upper bound on Record.Stage.
var MaxStage = len(Intervals)

// masteryStage is the minimum stage at which an item counts as mastered.
const masteryStage = 2

// ApplyOutcome folds one review outcome into the record: counters, stage,
// mastery, and the next due date. The record is updated in place and the
// call cannot fail.
//
// A correct answer climbs one rung and schedules the item
// Intervals[stage-1] days out; a wrong answer drops one rung, clears
// mastery, and forces a next-day review. Stage stays within [0, MaxStage].
func ApplyOutcome(rec *Record, correct bool, now time.Time) {
	if correct {
		rec.Correct++
		if rec.Stage < MaxStage {
			rec.Stage++
		}
		rec.Mastered = IsMasteredStage(rec.Stage)
	} else {
		rec.Wrong++
		if rec.Stage > 0 {
			rec.Stage--
		}
		rec.Mastered = false
	}

	days := 1
	if correct {
		idx := rec.Stage - 1
		if idx < 0 {
			idx = 0
		}
		if idx < len(Intervals) {
			days = Intervals[idx]
		}
	}

	due := now.AddDate(0, 0, days)
	rec.NextDue = &due
	rec.LastReviewed = &now
}

// IsMasteredStage reports whether a stage satisfies the mastery rule.
// Every call path that flips mastery on a correct answer goes through this
// same threshold.
func IsMasteredStage(stage int) bool {
	return stage >= masteryStage
}
