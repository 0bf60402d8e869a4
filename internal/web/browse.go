package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/srs"
)

// radicalView pairs a radical with its review state and the example words
// chosen for the active level filter.
type radicalView struct {
	Radical  domain.Radical
	Record   *srs.Record
	Tracked  bool
	Examples []domain.Sample
}

// grammarView pairs a grammar point with its review state for rendering.
type grammarView struct {
	Point   domain.GrammarPoint
	Record  *srs.Record
	Tracked bool
}

func (s *Server) handleRadicals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := s.curriculumSet()
		level := parseLevel(r.URL.Query().Get("level"))
		mode := r.URL.Query().Get("mode")
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
		onlyDue := r.URL.Query().Get("due") == "1"
		now := time.Now()

		var views []radicalView
		for _, radical := range set.Radicals {
			if level > 0 {
				if radical.FirstHSKLevel == nil {
					continue
				}
				if mode == "introduced" && *radical.FirstHSKLevel != level {
					continue
				}
				if mode != "introduced" && *radical.FirstHSKLevel > level {
					continue
				}
			}
			if search != "" && !radicalMatches(radical, search) {
				continue
			}

			rec, tracked := s.tracker.Record("radicals", radical.ID)
			if onlyDue && !(tracked && rec.IsDue(now)) {
				continue
			}

			view := radicalView{
				Radical:  radical,
				Tracked:  tracked,
				Examples: radical.ExamplesAtLevel(level),
			}
			if tracked {
				recCopy := rec
				view.Record = &recCopy
			}
			views = append(views, view)
		}

		s.render(w, "radical_list", map[string]any{
			"Radicals": views,
			"Count":    len(views),
		})
	}
}

func radicalMatches(radical domain.Radical, search string) bool {
	hay := strings.ToLower(strings.Join([]string{
		radical.ID, radical.Ideograph, radical.Symbol,
		radical.Definition, radical.Pinyin, radical.Name,
	}, " "))
	return strings.Contains(hay, search)
}

// handleRadicalAction handles POST /radicals/{id}/toggle and
// POST /radicals/{id}/review.
func (s *Server) handleRadicalAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, action := itemID(r.URL.Path, "/radicals/")
		if _, ok := s.curriculumSet().Radical(id); !ok {
			http.NotFound(w, r)
			return
		}

		var err error
		switch action {
		case "toggle":
			_, err = s.tracker.ToggleRadicalMastered(id)
		case "review":
			err = s.tracker.ReviewRadical(id, true)
		default:
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		s.renderRadicalCard(w, id)
	}
}

func (s *Server) renderRadicalCard(w http.ResponseWriter, id string) {
	set := s.curriculumSet()
	radical, ok := set.Radical(id)
	if !ok {
		return
	}
	rec, tracked := s.tracker.Record("radicals", id)
	view := radicalView{
		Radical:  *radical,
		Tracked:  tracked,
		Examples: radical.ExamplesAtLevel(0),
	}
	if tracked {
		recCopy := rec
		view.Record = &recCopy
	}
	s.render(w, "radical_card", view)
}

func (s *Server) handleGrammar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := s.curriculumSet()
		level := parseLevel(r.URL.Query().Get("level"))
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
		onlyUnlearned := r.URL.Query().Get("unlearned") == "1"

		var views []grammarView
		for _, point := range set.Grammar {
			if level > 0 && point.Level != level {
				continue
			}
			if search != "" && !grammarMatches(point, search) {
				continue
			}

			rec, tracked := s.tracker.Record("grammar", point.ID)
			if onlyUnlearned && tracked && rec.Mastered {
				continue
			}

			view := grammarView{Point: point, Tracked: tracked}
			if tracked {
				recCopy := rec
				view.Record = &recCopy
			}
			views = append(views, view)
		}

		s.render(w, "grammar_list", map[string]any{
			"Points": views,
			"Count":  len(views),
		})
	}
}

func grammarMatches(point domain.GrammarPoint, search string) bool {
	parts := []string{point.Code, point.Title, point.TitlePinyin, point.Category}
	parts = append(parts, point.Examples...)
	parts = append(parts, point.ExamplesPinyin...)
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), search)
}

// handleGrammarMastered handles POST /grammar/{id}/mastered with a
// "checked" form value.
func (s *Server) handleGrammarMastered() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, action := itemID(r.URL.Path, "/grammar/")
		if action != "mastered" {
			http.NotFound(w, r)
			return
		}
		point, ok := s.curriculumSet().GrammarPoint(id)
		if !ok {
			http.NotFound(w, r)
			return
		}

		checked := r.PostFormValue("checked") == "1"
		if err := s.tracker.SetGrammarMastered(id, checked); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		rec, tracked := s.tracker.Record("grammar", id)
		view := grammarView{Point: *point, Tracked: tracked}
		if tracked {
			recCopy := rec
			view.Record = &recCopy
		}
		s.render(w, "grammar_card", view)
	}
}
