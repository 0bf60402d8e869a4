package quiz

import (
	"errors"
	"math/rand"

	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/domain"
)

// Mode selects the kind of question to generate.
type Mode string

const (
	ModeRadicalChoice    Mode = "radical-mc"
	ModeRadicalDictation Mode = "radical-dictation"
	ModeWordDictation    Mode = "word-dictation"
)

// optionCount is the number of choices in a multiple-choice question
// (one correct answer plus three distractors).
const optionCount = 4

var (
	// ErrPoolTooSmall means the level/radical filter left too few items to
	// build a question from.
	ErrPoolTooSmall = errors.New("quiz: not enough items in the selected filter")
	// ErrUnknownMode means the requested question mode does not exist.
	ErrUnknownMode = errors.New("quiz: unknown question mode")
)

// Question is one generated quiz question. Radical is set for the radical
// modes, Word for word dictation; Options is populated only for
// multiple-choice.
type Question struct {
	Mode    Mode
	Radical *domain.Radical
	Word    *domain.Word
	Options []domain.Radical
}

// GrammarQuestion is a grammar multiple-choice question: pick the grammar
// point that matches the example sentence.
type GrammarQuestion struct {
	Target  domain.GrammarPoint
	Options []domain.GrammarPoint
}

// Picker generates questions from the curriculum. The rand source is
// injected so tests can be deterministic.
type Picker struct {
	set *curriculum.Set
	rng *rand.Rand
}

// NewPicker creates a Picker over the given curriculum.
func NewPicker(set *curriculum.Set, rng *rand.Rand) *Picker {
	return &Picker{set: set, rng: rng}
}

// Next builds a question for the mode over the level/radical filter.
// A level of 0 means all levels; an empty radicalID means no radical filter.
func (p *Picker) Next(mode Mode, level int, radicalID string) (*Question, error) {
	switch mode {
	case ModeRadicalChoice:
		pool := p.set.RadicalsUpToLevel(level)
		if len(pool) < optionCount {
			return nil, ErrPoolTooSmall
		}
		target := pool[p.rng.Intn(len(pool))]

		distractors := make([]domain.Radical, 0, len(pool)-1)
		for _, r := range pool {
			if r.ID != target.ID {
				distractors = append(distractors, r)
			}
		}
		p.shuffleRadicals(distractors)
		options := append([]domain.Radical{target}, distractors[:optionCount-1]...)
		p.shuffleRadicals(options)

		targetCopy := target
		return &Question{Mode: mode, Radical: &targetCopy, Options: options}, nil

	case ModeRadicalDictation:
		pool := p.set.RadicalsUpToLevel(level)
		if len(pool) == 0 {
			return nil, ErrPoolTooSmall
		}
		target := pool[p.rng.Intn(len(pool))]
		return &Question{Mode: mode, Radical: &target}, nil

	case ModeWordDictation:
		pool := p.set.WordsForLevel(level, radicalID)
		if len(pool) == 0 {
			return nil, ErrPoolTooSmall
		}
		target := pool[p.rng.Intn(len(pool))]
		return &Question{Mode: mode, Word: &target}, nil
	}

	return nil, ErrUnknownMode
}

// NextGrammar builds a grammar multiple-choice question for the level
// (0 means all levels).
func (p *Picker) NextGrammar(level int) (*GrammarQuestion, error) {
	pool := p.set.GrammarForLevel(level)
	if len(pool) < optionCount {
		return nil, ErrPoolTooSmall
	}
	target := pool[p.rng.Intn(len(pool))]

	distractors := make([]domain.GrammarPoint, 0, len(pool)-1)
	for _, g := range pool {
		if g.ID != target.ID {
			distractors = append(distractors, g)
		}
	}
	p.shuffleGrammar(distractors)
	options := append([]domain.GrammarPoint{target}, distractors[:optionCount-1]...)
	p.shuffleGrammar(options)

	return &GrammarQuestion{Target: target, Options: options}, nil
}

// CheckRadicalDictation accepts either the full ideograph or its combining
// form as a correct answer.
func CheckRadicalDictation(user string, radical *domain.Radical) bool {
	trimmed := Comparable(user)
	return trimmed != "" &&
		(trimmed == Comparable(radical.Ideograph) || trimmed == Comparable(radical.Symbol))
}

func (p *Picker) shuffleRadicals(items []domain.Radical) {
	p.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func (p *Picker) shuffleGrammar(items []domain.GrammarPoint) {
	p.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
