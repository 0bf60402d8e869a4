package domain

import "strconv"

// Category identifies which review store a learnable item belongs to.
type Category string

const (
	CategoryRadical Category = "radical"
	CategoryWord    Category = "word"
	CategoryGrammar Category = "grammar"
)

// Levels lists the HSK levels covered by the curriculum. Level 7 stands for
// the combined HSK 7-9 band.
var Levels = []int{1, 2, 3, 4, 5, 6, 7}

// LevelLabel renders a level for display.
func LevelLabel(level int) string {
	if level == 7 {
		return "HSK 7-9"
	}
	return "HSK " + strconv.Itoa(level)
}

// Radical is a Kangxi radical as introduced across the HSK word lists.
type Radical struct {
	ID              string              `json:"id" validate:"required"`
	Ideograph       string              `json:"ideograph" validate:"required"`
	Symbol          string              `json:"symbol"`
	Name            string              `json:"name"`
	Definition      string              `json:"definition"`
	Pinyin          string              `json:"pinyin"`
	Strokes         int                 `json:"strokes"`
	FirstHSKLevel   *int                `json:"first_hsk_level"` // nil when not in any HSK list
	ExamplesByLevel map[string][]Sample `json:"examples_by_level"`
}

// Sample is an example word attached to a radical at a given level.
type Sample struct {
	Word   string `json:"word"`
	Pinyin string `json:"pinyin"`
}

// maxExampleWords caps how many example words a radical card shows.
const maxExampleWords = 3

// ExamplesAtLevel picks up to three example words for a radical: the
// requested level's examples when it has any, then the level the radical
// is first introduced at, then the lowest level with examples. A level of
// 0 expresses no preference.
func (r Radical) ExamplesAtLevel(level int) []Sample {
	if level > 0 {
		if ex := capSamples(r.ExamplesByLevel[strconv.Itoa(level)]); len(ex) > 0 {
			return ex
		}
	}
	if r.FirstHSKLevel != nil {
		if ex := capSamples(r.ExamplesByLevel[strconv.Itoa(*r.FirstHSKLevel)]); len(ex) > 0 {
			return ex
		}
	}
	for _, lv := range Levels {
		if ex := capSamples(r.ExamplesByLevel[strconv.Itoa(lv)]); len(ex) > 0 {
			return ex
		}
	}
	return nil
}

func capSamples(samples []Sample) []Sample {
	if len(samples) > maxExampleWords {
		return samples[:maxExampleWords]
	}
	return samples
}

// Word is a vocabulary entry from one of the HSK word lists.
type Word struct {
	ID         string   `json:"id" validate:"required"`
	Word       string   `json:"word" validate:"required"`
	Pinyin     string   `json:"pinyin"`
	Meaning    string   `json:"meaning"`
	Level      int      `json:"level" validate:"min=1,max=7"`
	RadicalIDs []string `json:"radical_ids"`
	Frequency  int      `json:"frequency"`
}

// GrammarPoint is a grammar pattern with example sentences.
type GrammarPoint struct {
	ID             string   `json:"id" validate:"required"`
	Code           string   `json:"code" validate:"required"`
	Title          string   `json:"title" validate:"required"`
	TitlePinyin    string   `json:"title_pinyin"`
	Category       string   `json:"category"`
	Level          int      `json:"level" validate:"min=1,max=7"`
	Examples       []string `json:"examples"`
	ExamplesPinyin []string `json:"examples_pinyin"`
	Source         string   `json:"source"`
}

// LevelMeta summarizes curriculum volume per HSK level.
type LevelMeta struct {
	Words              int `json:"words"`
	GrammarPoints      int `json:"grammar_points"`
	RadicalsIntroduced int `json:"radicals_introduced"`
}

// Meta is the curriculum-wide metadata document.
type Meta struct {
	Levels map[string]LevelMeta `json:"levels"`
}
