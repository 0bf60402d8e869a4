package tracker

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/progress"
	"github.com/example/hskstudio/internal/srs"
)

// Saver persists the progress aggregate after a mutation.
type Saver interface {
	SaveProgress(*progress.Progress) error
}

// Tracker owns the in-memory progress aggregate for one running session.
// Every mutating operation takes the lock, applies the change, and persists
// before returning, so user actions and the study-timer callback are
// serialized through a single writer.
type Tracker struct {
	mu    sync.Mutex
	prog  *progress.Progress
	store Saver
	set   *curriculum.Set
	now   func() time.Time
}

// New creates a Tracker over an already-loaded aggregate.
func New(prog *progress.Progress, store Saver, set *curriculum.Set) *Tracker {
	return &Tracker{
		prog:  prog,
		store: store,
		set:   set,
		now:   time.Now,
	}
}

// SetCurriculum swaps in a freshly synced curriculum. Review records keyed
// by ids the new set no longer contains stop resolving in due lists; later
// word reviews propagate to the radicals the new set declares.
func (t *Tracker) SetCurriculum(set *curriculum.Set) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set = set
}

func (t *Tracker) save() error {
	if err := t.store.SaveProgress(t.prog); err != nil {
		return fmt.Errorf("failed to persist progress: %w", err)
	}
	return nil
}

// ReviewRadical applies one review outcome to a radical's record.
func (t *Tracker) ReviewRadical(id string, correct bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	srs.ApplyOutcome(t.prog.Radicals.Ensure(id), correct, t.now())
	return t.save()
}

// ReviewWord applies one review outcome to a word and to every radical the
// word is built from, so dictating a word keeps its components scheduled too.
func (t *Tracker) ReviewWord(id string, correct bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.applyWordOutcome(id, correct, t.now())
	return t.save()
}

// applyWordOutcome reviews a word and its component radicals together.
// Callers hold the lock.
func (t *Tracker) applyWordOutcome(id string, correct bool, now time.Time) {
	srs.ApplyOutcome(t.prog.Words.Ensure(id), correct, now)
	if word, ok := t.set.Word(id); ok {
		for _, radicalID := range word.RadicalIDs {
			srs.ApplyOutcome(t.prog.Radicals.Ensure(radicalID), correct, now)
		}
	}
}

// ToggleRadicalMastered flips a radical between mastered and fresh. Marking
// counts as a correct review and as daily radical activity; unmarking
// resets the record to zero state. Returns the resulting mastered flag.
func (t *Tracker) ToggleRadicalMastered(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec := t.prog.Radicals.Ensure(id)
	if rec.Mastered {
		t.prog.Radicals.Reset(id)
		return false, t.save()
	}

	srs.ApplyOutcome(rec, true, now)
	rec.Mastered = true
	t.prog.AddDaily(progress.CounterRadicals, 1, now)
	return true, t.save()
}

// SetGrammarMastered checks or unchecks a grammar point's mastered box.
// Checking counts as a correct review plus daily grammar activity;
// unchecking resets the record.
func (t *Tracker) SetGrammarMastered(id string, mastered bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !mastered {
		t.prog.Grammar.Reset(id)
		return t.save()
	}

	now := t.now()
	rec := t.prog.Grammar.Ensure(id)
	srs.ApplyOutcome(rec, true, now)
	rec.Mastered = true
	t.prog.AddDaily(progress.CounterGrammar, 1, now)
	return t.save()
}

// RegisterQuizAnswer folds a radical or word quiz answer into the
// aggregate: the item's review record, the lifetime quiz counters, daily
// activity on a correct answer, and the mistake log on a wrong one.
func (t *Tracker) RegisterQuizAnswer(category domain.Category, id string, correct bool, mistake progress.Mistake) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	switch category {
	case domain.CategoryRadical:
		srs.ApplyOutcome(t.prog.Radicals.Ensure(id), correct, now)
	case domain.CategoryWord:
		t.applyWordOutcome(id, correct, now)
	}

	if correct {
		t.prog.QuizStats.Correct++
		t.prog.AddDaily(progress.CounterDictation, 1, now)
	} else {
		t.prog.QuizStats.Wrong++
		t.prog.AddMistake(mistake, now)
	}
	return t.save()
}

// AnswerGrammarQuiz folds a grammar quiz answer into the aggregate. The
// mastery flag follows the scheduler's threshold on a correct answer, same
// as every other review path.
func (t *Tracker) AnswerGrammarQuiz(id string, correct bool, mistake progress.Mistake) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	srs.ApplyOutcome(t.prog.Grammar.Ensure(id), correct, now)
	if correct {
		t.prog.AddDaily(progress.CounterGrammar, 1, now)
	} else {
		t.prog.AddMistake(mistake, now)
	}
	return t.save()
}

// AddStudyMinutes records completed focus time. This is the study-timer
// callback path and shares the single-writer lock with user actions.
func (t *Tracker) AddStudyMinutes(minutes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prog.AddDaily(progress.CounterMinutes, minutes, t.now())
	return t.save()
}

// SetDailyTargets replaces the daily goals, flooring each at 1.
func (t *Tracker) SetDailyTargets(targets progress.DailyTargets) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	floor := func(v int) int {
		if v < 1 {
			return 1
		}
		return v
	}
	t.prog.DailyTargets = progress.DailyTargets{
		Radicals:  floor(targets.Radicals),
		Grammar:   floor(targets.Grammar),
		Words:     floor(targets.Words),
		Dictation: floor(targets.Dictation),
	}
	return t.save()
}

// Export serializes the aggregate and names the download after today's
// date.
func (t *Tracker) Export() ([]byte, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := json.MarshalIndent(t.prog, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize progress for export: %w", err)
	}
	filename := fmt.Sprintf("hsk-progress-%s.json", progress.DayKey(t.now()))
	return data, filename, nil
}

// Import replaces the aggregate with an external document after merging it
// against defaults. A document that is not JSON at all is rejected and the
// current state is left untouched; anything parseable is absorbed
// field-by-field.
func (t *Tracker) Import(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !json.Valid(data) {
		return fmt.Errorf("import rejected: not a valid JSON document")
	}
	t.prog = progress.MergeWithDefaults(data)
	return t.save()
}
