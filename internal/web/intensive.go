package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/hskstudio/internal/progress"
)

// importLimit bounds an uploaded progress document.
const importLimit = 4 << 20

func (s *Server) handleIntensive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, targets := s.tracker.Today()
		remaining, running := s.timer.Remaining()

		s.render(w, "intensive", map[string]any{
			"Day":      day,
			"Targets":  targets,
			"Mistakes": s.tracker.Mistakes(24),
			"Timer":    formatCountdown(remaining),
			"Running":  running,
			"Streak":   s.tracker.Stats().StreakDays,
		})
	}
}

func (s *Server) handleSaveTargets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		targets := progress.DailyTargets{
			Radicals:  formInt(r, "radicals"),
			Grammar:   formInt(r, "grammar"),
			Words:     formInt(r, "words"),
			Dictation: formInt(r, "dictation"),
		}
		if err := s.tracker.SetDailyTargets(targets); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.handleIntensive()(w, r)
	}
}

func formInt(r *http.Request, field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(field)))
	if err != nil {
		return 0
	}
	return n
}

// handleTimer handles POST /timer/{start|pause|reset} and GET /timer/state.
func (s *Server) handleTimer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := strings.TrimPrefix(r.URL.Path, "/timer/")

		switch action {
		case "start":
			s.timer.Start()
		case "pause":
			s.timer.Pause()
		case "reset":
			s.timer.Reset()
		case "state":
			// read-only
		default:
			http.NotFound(w, r)
			return
		}

		remaining, running := s.timer.Remaining()
		s.render(w, "timer", map[string]any{
			"Timer":   formatCountdown(remaining),
			"Running": running,
		})
	}
}

func formatCountdown(remaining time.Duration) string {
	total := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (s *Server) handleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := s.tracker.Export()
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(data)
	}
}

func (s *Server) handleImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, _, err := r.FormFile("progress")
		if err != nil {
			http.Error(w, "No progress file uploaded", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, importLimit))
		if err != nil {
			http.Error(w, "Failed to read upload", http.StatusBadRequest)
			return
		}

		if err := s.tracker.Import(data); err != nil {
			http.Error(w, "Failed to import progress file", http.StatusBadRequest)
			return
		}
		s.render(w, "import_result", nil)
	}
}
