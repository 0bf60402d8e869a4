package web

import (
	"fmt"
	"net/http"

	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/progress"
	"github.com/example/hskstudio/internal/quiz"
)

func (s *Server) handleQuizHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := s.curriculumSet()
		s.render(w, "quiz_home", map[string]any{
			"Radicals": set.Radicals,
		})
	}
}

func (s *Server) handleQuizNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		mode := quiz.Mode(r.PostFormValue("mode"))
		level := parseLevel(r.PostFormValue("level"))
		radicalID := r.PostFormValue("radical")
		if radicalID == "all" {
			radicalID = ""
		}

		s.mu.Lock()
		question, err := s.picker.Next(mode, level, radicalID)
		if err == nil {
			s.currentQuiz = question
		}
		s.mu.Unlock()

		if err != nil {
			s.render(w, "quiz_empty", map[string]any{"Reason": "Not enough items in this filter."})
			return
		}
		s.render(w, "quiz_question", question)
	}
}

func (s *Server) handleQuizAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		question := s.currentQuiz
		s.currentQuiz = nil
		s.mu.Unlock()

		if question == nil {
			http.Error(w, "No active question", http.StatusBadRequest)
			return
		}

		var correct bool
		var expected string
		var err error

		switch question.Mode {
		case quiz.ModeRadicalChoice:
			option := r.PostFormValue("option")
			correct = option == question.Radical.ID
			expected = question.Radical.Definition
			err = s.tracker.RegisterQuizAnswer(domain.CategoryRadical, question.Radical.ID, correct, progress.Mistake{
				Type:     string(question.Mode),
				Prompt:   fmt.Sprintf("%s meaning", question.Radical.Ideograph),
				Expected: question.Radical.Definition,
				User:     option,
			})

		case quiz.ModeRadicalDictation:
			answer := r.PostFormValue("answer")
			correct = quiz.CheckRadicalDictation(answer, question.Radical)
			expected = question.Radical.Ideograph
			err = s.tracker.RegisterQuizAnswer(domain.CategoryRadical, question.Radical.ID, correct, progress.Mistake{
				Type:     string(question.Mode),
				Prompt:   question.Radical.Definition,
				Expected: question.Radical.Ideograph,
				User:     answer,
			})

		case quiz.ModeWordDictation:
			answer := r.PostFormValue("answer")
			correct = quiz.AnswersMatch(answer, question.Word.Word)
			expected = question.Word.Word
			err = s.tracker.RegisterQuizAnswer(domain.CategoryWord, question.Word.ID, correct, progress.Mistake{
				Type:     string(question.Mode),
				Prompt:   fmt.Sprintf("%s / %s", question.Word.Pinyin, question.Word.Meaning),
				Expected: question.Word.Word,
				User:     answer,
			})
		}

		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		stats := s.tracker.Stats()
		s.render(w, "quiz_feedback", map[string]any{
			"Correct":  correct,
			"Expected": expected,
			"Stats":    stats.QuizStats,
		})
	}
}

func (s *Server) handleGrammarQuizNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		level := parseLevel(r.PostFormValue("level"))

		s.mu.Lock()
		question, err := s.picker.NextGrammar(level)
		if err == nil {
			s.currentGrammar = question
		}
		s.mu.Unlock()

		if err != nil {
			s.render(w, "quiz_empty", map[string]any{"Reason": "Not enough grammar points for a quiz."})
			return
		}
		s.render(w, "grammar_quiz_question", question)
	}
}

func (s *Server) handleGrammarQuizAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		question := s.currentGrammar
		s.currentGrammar = nil
		s.mu.Unlock()

		if question == nil {
			http.Error(w, "No active question", http.StatusBadRequest)
			return
		}

		option := r.PostFormValue("option")
		correct := option == question.Target.ID

		prompt := question.Target.Code
		if len(question.Target.Examples) > 0 {
			prompt = question.Target.Examples[0]
		}
		err := s.tracker.AnswerGrammarQuiz(question.Target.ID, correct, progress.Mistake{
			Type:     "grammar-quiz",
			Prompt:   prompt,
			Expected: question.Target.Title,
			User:     option,
		})
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		s.render(w, "quiz_feedback", map[string]any{
			"Correct":  correct,
			"Expected": question.Target.Title,
			"Stats":    s.tracker.Stats().QuizStats,
		})
	}
}
