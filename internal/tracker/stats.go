package tracker

import (
	"strconv"
	"time"

	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/progress"
	"github.com/example/hskstudio/internal/srs"
)

// Stats is a read-only snapshot of the numbers the dashboard shows.
type Stats struct {
	RadicalsMastered int
	GrammarMastered  int
	WordsMastered    int
	TotalRadicals    int
	TotalGrammar     int
	QuizStats        progress.QuizStats
	DueCount         int
	StreakDays       int
}

// Stats assembles a dashboard snapshot.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	return Stats{
		RadicalsMastered: t.prog.Radicals.MasteredCount(),
		GrammarMastered:  t.prog.Grammar.MasteredCount(),
		WordsMastered:    t.prog.Words.MasteredCount(),
		TotalRadicals:    len(t.set.Radicals),
		TotalGrammar:     len(t.set.Grammar),
		QuizStats:        t.prog.QuizStats,
		DueCount:         len(t.prog.DueItems(t.set.Label, now, 0)),
		StreakDays:       t.prog.StreakDays(now),
	}
}

// LevelProgress summarizes one HSK level for the dashboard grid:
// curriculum volume from the meta document plus how much of the content
// available up to that level is mastered.
type LevelProgress struct {
	Level              int
	Words              int
	GrammarPoints      int
	RadicalsIntroduced int
	RadicalsAvailable  int
	RadicalsMastered   int
	GrammarAvailable   int
	GrammarMastered    int
}

// LevelProgress reports per-level mastery across all HSK levels. Counts
// are cumulative: a level's pool is everything introduced at or before it.
func (t *Tracker) LevelProgress() []LevelProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]LevelProgress, 0, len(domain.Levels))
	for _, level := range domain.Levels {
		meta := t.set.Meta.Levels[strconv.Itoa(level)]
		lp := LevelProgress{
			Level:              level,
			Words:              meta.Words,
			GrammarPoints:      meta.GrammarPoints,
			RadicalsIntroduced: meta.RadicalsIntroduced,
		}

		for _, radical := range t.set.RadicalsUpToLevel(level) {
			lp.RadicalsAvailable++
			if rec, ok := t.prog.Radicals[radical.ID]; ok && rec != nil && rec.Mastered {
				lp.RadicalsMastered++
			}
		}
		for _, point := range t.set.Grammar {
			if point.Level > level {
				continue
			}
			lp.GrammarAvailable++
			if rec, ok := t.prog.Grammar[point.ID]; ok && rec != nil && rec.Mastered {
				lp.GrammarMastered++
			}
		}
		out = append(out, lp)
	}
	return out
}

// DueItems returns the review queue, earliest-due first.
func (t *Tracker) DueItems(limit int) []progress.DueItem {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.prog.DueItems(t.set.Label, t.now(), limit)
}

// Record returns a copy of one item's review record and whether it exists.
func (t *Tracker) Record(category string, id string) (srs.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	store := t.prog.Store(category)
	if store == nil {
		return srs.Record{}, false
	}
	rec, ok := store[id]
	if !ok || rec == nil {
		return srs.Record{}, false
	}
	return *rec, true
}

// Today returns a copy of today's daily log bucket alongside the targets.
func (t *Tracker) Today() (progress.DayLog, progress.DailyTargets) {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := t.prog.EnsureDay(t.now())
	return *day, t.prog.DailyTargets
}

// Mistakes returns up to limit most-recent mistakes.
func (t *Tracker) Mistakes(limit int) []progress.Mistake {
	t.mu.Lock()
	defer t.mu.Unlock()

	mistakes := t.prog.Mistakes
	if limit > 0 && len(mistakes) > limit {
		mistakes = mistakes[:limit]
	}
	out := make([]progress.Mistake, len(mistakes))
	copy(out, mistakes)
	return out
}

// LastActivity returns the timestamp of the most recent study action.
func (t *Tracker) LastActivity() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.prog.LastActivity == nil {
		return nil
	}
	ts := *t.prog.LastActivity
	return &ts
}
