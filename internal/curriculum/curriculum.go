package curriculum

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/example/hskstudio/internal/domain"
)

// File names expected inside the curriculum data directory.
const (
	radicalsFile = "radicals.json"
	wordsFile    = "words.json"
	grammarFile  = "grammar.json"
	metaFile     = "meta.json"
)

// Set is the loaded, read-only curriculum: every learnable item plus the
// per-level metadata. The application never mutates it.
type Set struct {
	Radicals     []domain.Radical
	WordsByLevel map[string][]domain.Word
	Grammar      []domain.GrammarPoint
	Meta         domain.Meta

	radicalByID map[string]*domain.Radical
	wordByID    map[string]*domain.Word
	grammarByID map[string]*domain.GrammarPoint
}

type radicalsDoc struct {
	Radicals []domain.Radical `json:"radicals"`
}

type wordsDoc struct {
	Levels map[string][]domain.Word `json:"levels"`
}

type grammarDoc struct {
	Points []domain.GrammarPoint `json:"points"`
}

// LoadDir reads and validates the four curriculum files from dir.
func LoadDir(dir string) (*Set, error) {
	set := &Set{}

	if err := loadFile(filepath.Join(dir, radicalsFile), func(r io.Reader) error {
		var doc radicalsDoc
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return err
		}
		set.Radicals = doc.Radicals
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(filepath.Join(dir, wordsFile), func(r io.Reader) error {
		var doc wordsDoc
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return err
		}
		set.WordsByLevel = doc.Levels
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(filepath.Join(dir, grammarFile), func(r io.Reader) error {
		var doc grammarDoc
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return err
		}
		set.Grammar = doc.Points
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(filepath.Join(dir, metaFile), func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&set.Meta)
	}); err != nil {
		return nil, err
	}

	if err := set.validate(); err != nil {
		return nil, err
	}
	set.index()
	return set, nil
}

func loadFile(path string, decode func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open curriculum file: %w", err)
	}
	defer file.Close()

	if err := decode(file); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validate checks every entry's required fields so that broken content is
// rejected at load time rather than surfacing as odd behavior mid-session.
func (s *Set) validate() error {
	v := validator.New()
	for i, radical := range s.Radicals {
		if err := v.Struct(radical); err != nil {
			return fmt.Errorf("invalid radical at index %d: %w", i, err)
		}
	}
	for level, words := range s.WordsByLevel {
		for i, word := range words {
			if err := v.Struct(word); err != nil {
				return fmt.Errorf("invalid word at level %s index %d: %w", level, i, err)
			}
		}
	}
	for i, point := range s.Grammar {
		if err := v.Struct(point); err != nil {
			return fmt.Errorf("invalid grammar point at index %d: %w", i, err)
		}
	}
	return nil
}

func (s *Set) index() {
	s.radicalByID = make(map[string]*domain.Radical, len(s.Radicals))
	for i := range s.Radicals {
		s.radicalByID[s.Radicals[i].ID] = &s.Radicals[i]
	}
	s.wordByID = map[string]*domain.Word{}
	for _, words := range s.WordsByLevel {
		for i := range words {
			s.wordByID[words[i].ID] = &words[i]
		}
	}
	s.grammarByID = make(map[string]*domain.GrammarPoint, len(s.Grammar))
	for i := range s.Grammar {
		s.grammarByID[s.Grammar[i].ID] = &s.Grammar[i]
	}
}

// Radical looks up a radical by id.
func (s *Set) Radical(id string) (*domain.Radical, bool) {
	r, ok := s.radicalByID[id]
	return r, ok
}

// Word looks up a word by id across all levels.
func (s *Set) Word(id string) (*domain.Word, bool) {
	w, ok := s.wordByID[id]
	return w, ok
}

// GrammarPoint looks up a grammar point by id.
func (s *Set) GrammarPoint(id string) (*domain.GrammarPoint, bool) {
	g, ok := s.grammarByID[id]
	return g, ok
}

// Label resolves the display label shown in due lists for an item id.
// The boolean is false when the id no longer exists in the curriculum.
func (s *Set) Label(category domain.Category, id string) (string, bool) {
	switch category {
	case domain.CategoryRadical:
		if r, ok := s.Radical(id); ok {
			return fmt.Sprintf("%s (%s)", r.Ideograph, r.ID), true
		}
	case domain.CategoryWord:
		if w, ok := s.Word(id); ok {
			return w.Word, true
		}
	case domain.CategoryGrammar:
		if g, ok := s.GrammarPoint(id); ok {
			return fmt.Sprintf("%s %s", g.Code, g.Title), true
		}
	}
	return "", false
}

// RadicalsUpToLevel returns the radicals introduced at or before level,
// excluding radicals that never appear in the HSK lists. A level of 0
// means every listed radical.
func (s *Set) RadicalsUpToLevel(level int) []domain.Radical {
	var pool []domain.Radical
	for _, r := range s.Radicals {
		if r.FirstHSKLevel == nil {
			continue
		}
		if level > 0 && *r.FirstHSKLevel > level {
			continue
		}
		pool = append(pool, r)
	}
	return pool
}

// WordsForLevel returns the words of one level, or every level when
// level is 0. A non-empty radicalID keeps only words containing it.
func (s *Set) WordsForLevel(level int, radicalID string) []domain.Word {
	var pool []domain.Word
	appendLevel := func(words []domain.Word) {
		for _, w := range words {
			if radicalID != "" && !contains(w.RadicalIDs, radicalID) {
				continue
			}
			pool = append(pool, w)
		}
	}

	if level > 0 {
		appendLevel(s.WordsByLevel[fmt.Sprintf("%d", level)])
		return pool
	}
	for _, lv := range domain.Levels {
		appendLevel(s.WordsByLevel[fmt.Sprintf("%d", lv)])
	}
	return pool
}

// GrammarForLevel returns the grammar points of one level, or all of them
// when level is 0.
func (s *Set) GrammarForLevel(level int) []domain.GrammarPoint {
	if level <= 0 {
		return s.Grammar
	}
	var pool []domain.GrammarPoint
	for _, g := range s.Grammar {
		if g.Level == level {
			pool = append(pool, g)
		}
	}
	return pool
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
