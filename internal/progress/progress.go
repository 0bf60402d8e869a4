package progress

import (
	"encoding/json"
	"time"

	"github.com/example/hskstudio/internal/srs"
)

const (
	// mistakeKeep bounds the mistake log as entries are appended.
	mistakeKeep = 80
	// mistakeImportKeep bounds the mistake log when merging imported or
	// persisted data, which may predate the tighter append cap.
	mistakeImportKeep = 120
)

// QuizStats is the lifetime correct/wrong counter pair for quiz answers.
type QuizStats struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// DailyTargets holds the per-category daily goal counts.
type DailyTargets struct {
	Radicals  int `json:"radicals"`
	Grammar   int `json:"grammar"`
	Words     int `json:"words"`
	Dictation int `json:"dictation"`
}

// Mistake is one logged wrong answer.
type Mistake struct {
	Type     string    `json:"type"`
	Prompt   string    `json:"prompt"`
	Expected string    `json:"expected"`
	User     string    `json:"user"`
	TS       time.Time `json:"ts"`
}

// Progress is the complete persisted learner state: one review store per
// item category plus quiz statistics, daily targets, the daily activity
// log, and the mistake log.
type Progress struct {
	Radicals     srs.Store          `json:"radicals"`
	Words        srs.Store          `json:"words"`
	Grammar      srs.Store          `json:"grammar"`
	QuizStats    QuizStats          `json:"quizStats"`
	DailyTargets DailyTargets       `json:"dailyTargets"`
	DailyLog     map[string]*DayLog `json:"dailyLog"`
	Mistakes     []Mistake          `json:"mistakes"`
	LastActivity *time.Time         `json:"lastActivity"`
}

// Defaults returns the zero-state aggregate: empty stores, zero stats,
// stock daily targets, no activity.
func Defaults() *Progress {
	return &Progress{
		Radicals: srs.Store{},
		Words:    srs.Store{},
		Grammar:  srs.Store{},
		DailyTargets: DailyTargets{
			Radicals:  6,
			Grammar:   6,
			Words:     10,
			Dictation: 25,
		},
		DailyLog: map[string]*DayLog{},
		Mistakes: []Mistake{},
	}
}

// MergeWithDefaults reconciles an arbitrary persisted or imported JSON
// document against the default shape. Each top-level field is taken from
// raw when it decodes to a usable value and falls back to its default
// otherwise, so the result is always fully shaped no matter how stale or
// malformed the input is. Old saves silently gain fields added in later
// schema versions at their defaults. Never fails.
func MergeWithDefaults(raw []byte) *Progress {
	merged := Defaults()
	if len(raw) == 0 {
		return merged
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return merged
	}

	merged.Radicals = mergeStore(fields["radicals"])
	merged.Words = mergeStore(fields["words"])
	merged.Grammar = mergeStore(fields["grammar"])

	// Decoding into the pre-filled defaults gives shallow-merge semantics:
	// keys present in raw override, keys missing keep their defaults.
	if data, ok := fields["quizStats"]; ok {
		stats := merged.QuizStats
		if err := json.Unmarshal(data, &stats); err == nil {
			merged.QuizStats = stats
		}
	}
	if data, ok := fields["dailyTargets"]; ok {
		targets := merged.DailyTargets
		if err := json.Unmarshal(data, &targets); err == nil {
			merged.DailyTargets = targets
		}
	}

	if data, ok := fields["dailyLog"]; ok {
		var log map[string]*DayLog
		if err := json.Unmarshal(data, &log); err == nil && log != nil {
			for key, day := range log {
				if day == nil {
					log[key] = &DayLog{}
				}
			}
			merged.DailyLog = log
		}
	}

	if data, ok := fields["mistakes"]; ok {
		var mistakes []Mistake
		if err := json.Unmarshal(data, &mistakes); err == nil && mistakes != nil {
			if len(mistakes) > mistakeImportKeep {
				mistakes = mistakes[:mistakeImportKeep]
			}
			merged.Mistakes = mistakes
		}
	}

	if data, ok := fields["lastActivity"]; ok {
		var last *time.Time
		if err := json.Unmarshal(data, &last); err == nil {
			merged.LastActivity = last
		}
	}

	return merged
}

// mergeStore decodes one review store, degrading to an empty store on any
// shape mismatch. Null records are dropped rather than kept as nil entries.
func mergeStore(data json.RawMessage) srs.Store {
	if data == nil {
		return srs.Store{}
	}
	var store srs.Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return srs.Store{}
	}
	for id, rec := range store {
		if rec == nil {
			delete(store, id)
		}
	}
	return store
}

// AddMistake prepends a mistake stamped at now and trims the log to the
// most recent entries.
func (p *Progress) AddMistake(m Mistake, now time.Time) {
	m.TS = now
	p.Mistakes = append([]Mistake{m}, p.Mistakes...)
	if len(p.Mistakes) > mistakeKeep {
		p.Mistakes = p.Mistakes[:mistakeKeep]
	}
}

// Store returns the review store for a category key ("radicals", "words",
// "grammar"). Unknown keys return nil.
func (p *Progress) Store(category string) srs.Store {
	switch category {
	case "radicals":
		return p.Radicals
	case "words":
		return p.Words
	case "grammar":
		return p.Grammar
	}
	return nil
}
