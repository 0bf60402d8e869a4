package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/quiz"
	"github.com/example/hskstudio/internal/session"
	cursync "github.com/example/hskstudio/internal/sync"
	"github.com/example/hskstudio/internal/tracker"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server. The current quiz
// question is kept server-side between the question and answer requests,
// which is fine for a single-learner app.
type Server struct {
	tracker   *tracker.Tracker
	router    *http.ServeMux
	templates *template.Template
	timer     *session.Timer

	mu             sync.Mutex
	set            *curriculum.Set
	picker         *quiz.Picker
	currentQuiz    *quiz.Question
	currentGrammar *quiz.GrammarQuestion

	repoURL string
	dataDir string
}

// NewServer creates and configures a new server.
func NewServer(trk *tracker.Tracker, set *curriculum.Set, timer *session.Timer, repoURL, dataDir string) *Server {
	funcs := template.FuncMap{
		"pct": func(numerator, denominator int) string {
			if denominator == 0 {
				return "0%"
			}
			return fmt.Sprintf("%d%%", int(float64(numerator)/float64(denominator)*100+0.5))
		},
		"add":       func(a, b int) int { return a + b },
		"levels":    func() []int { return domain.Levels },
		"shortDate": func(t time.Time) string { return t.Format("Jan 2") },
		"levelLabel": domain.LevelLabel,
	}

	tpl, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		// Templates are embedded; a parse failure is a build defect.
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}

	s := &Server{
		tracker:   trk,
		router:    http.NewServeMux(),
		templates: tpl,
		timer:     timer,
		set:       set,
		picker:    quiz.NewPicker(set, rand.New(rand.NewSource(time.Now().UnixNano()))),
		repoURL:   repoURL,
		dataDir:   dataDir,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create sub-filesystem for static assets: %v", err))
	}
	fileServer := http.FileServer(http.FS(staticFS))

	s.router.Handle("/static/", http.StripPrefix("/static/", fileServer))
	s.router.HandleFunc("/", s.handleIndex())

	// HTMX-based fragments
	s.router.HandleFunc("/dashboard", s.handleDashboard())
	s.router.HandleFunc("/radicals", s.handleRadicals())
	s.router.HandleFunc("/radicals/", s.handleRadicalAction())
	s.router.HandleFunc("/grammar", s.handleGrammar())
	s.router.HandleFunc("/grammar/", s.handleGrammarMastered())

	// Quizzes
	s.router.HandleFunc("/quiz", s.handleQuizHome())
	s.router.HandleFunc("/quiz/next", s.handleQuizNext())
	s.router.HandleFunc("/quiz/answer", s.handleQuizAnswer())
	s.router.HandleFunc("/grammar-quiz/next", s.handleGrammarQuizNext())
	s.router.HandleFunc("/grammar-quiz/answer", s.handleGrammarQuizAnswer())

	// Intensive tab: targets, mistakes, focus timer
	s.router.HandleFunc("/intensive", s.handleIntensive())
	s.router.HandleFunc("/targets", s.handleSaveTargets())
	s.router.HandleFunc("/timer/", s.handleTimer())

	// Progress portability and curriculum sync
	s.router.HandleFunc("/export", s.handleExport())
	s.router.HandleFunc("/import", s.handleImport())
	s.router.HandleFunc("/sync", s.handleSync())
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Template render failed", "template", name, "error", err)
	}
}

// curriculumSet returns the currently loaded curriculum under lock, so a
// concurrent sync swap is safe.
func (s *Server) curriculumSet() *curriculum.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		set := s.curriculumSet()
		s.render(w, "index", map[string]any{
			"RadicalCount": len(set.Radicals),
			"GrammarCount": len(set.Grammar),
			"SyncEnabled":  s.repoURL != "",
		})
	}
}

func (s *Server) handleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := s.tracker.Stats()
		due := s.tracker.DueItems(0)
		if len(due) > 14 {
			due = due[:14]
		}

		var lastActivity any
		if ts := s.tracker.LastActivity(); ts != nil {
			lastActivity = *ts
		}
		s.render(w, "dashboard", map[string]any{
			"Stats":        stats,
			"Due":          due,
			"Levels":       s.tracker.LevelProgress(),
			"LastActivity": lastActivity,
		})
	}
}

// handleSync pulls the curriculum repository and swaps in the fresh set.
func (s *Server) handleSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.repoURL == "" {
			http.Error(w, "No curriculum repository configured", http.StatusBadRequest)
			return
		}

		set, err := cursync.RunSync(s.repoURL, s.dataDir)
		if err != nil {
			slog.Error("Curriculum sync failed", "error", err)
			http.Error(w, "Sync failed", http.StatusInternalServerError)
			return
		}

		s.mu.Lock()
		s.set = set
		s.picker = quiz.NewPicker(set, rand.New(rand.NewSource(time.Now().UnixNano())))
		s.mu.Unlock()
		s.tracker.SetCurriculum(set)

		s.render(w, "sync_result", map[string]any{
			"Radicals": len(set.Radicals),
			"Grammar":  len(set.Grammar),
		})
	}
}

// parseLevel maps the "all" filter value to 0.
func parseLevel(value string) int {
	if value == "" || value == "all" {
		return 0
	}
	level, err := strconv.Atoi(value)
	if err != nil || level < 1 || level > 7 {
		return 0
	}
	return level
}

// itemID extracts the id segment from paths like /radicals/{id}/{action}.
func itemID(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}
