package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/progress"
	"github.com/example/hskstudio/internal/session"
	"github.com/example/hskstudio/internal/tracker"
)

const (
	testRadicals = `{"radicals": [
		{"id": "9", "ideograph": "人", "symbol": "亻", "definition": "person", "pinyin": "rén", "strokes": 2, "first_hsk_level": 1,
			"examples_by_level": {"1": [{"word": "人们", "pinyin": "rénmen"}]}},
		{"id": "30", "ideograph": "口", "symbol": "口", "definition": "mouth", "pinyin": "kǒu", "strokes": 3, "first_hsk_level": 1},
		{"id": "61", "ideograph": "心", "symbol": "心", "definition": "heart", "pinyin": "xīn", "strokes": 4, "first_hsk_level": 1},
		{"id": "85", "ideograph": "水", "symbol": "氵", "definition": "water", "pinyin": "shuǐ", "strokes": 4, "first_hsk_level": 1},
		{"id": "140", "ideograph": "艸", "symbol": "艹", "definition": "grass", "pinyin": "cǎo", "strokes": 6, "first_hsk_level": 2}
	]}`
	testWords = `{"levels": {
		"1": [{"id": "w-1", "word": "你好", "pinyin": "nǐ hǎo", "meaning": "hello", "level": 1, "radical_ids": ["9", "30"], "frequency": 1}]
	}}`
	testGrammar = `{"points": [
		{"id": "g-1", "code": "G1.1", "title": "是 sentences", "level": 1, "examples": ["我是学生。"]},
		{"id": "g-2", "code": "G1.2", "title": "吗 questions", "level": 1, "examples": ["你好吗？"]},
		{"id": "g-3", "code": "G1.3", "title": "的 attribution", "level": 1, "examples": ["我的书。"]},
		{"id": "g-4", "code": "G2.1", "title": "把 construction", "level": 2, "examples": ["把门关上。"]}
	]}`
	testMeta = `{"levels": {"1": {"words": 1, "grammar_points": 3, "radicals_introduced": 4}}}`
)

type memorySaver struct {
	saves int
}

func (m *memorySaver) SaveProgress(*progress.Progress) error {
	m.saves++
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"radicals.json": testRadicals,
		"words.json":    testWords,
		"grammar.json":  testGrammar,
		"meta.json":     testMeta,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	set, err := curriculum.LoadDir(dir)
	if err != nil {
		t.Fatalf("failed to load curriculum: %v", err)
	}

	trk := tracker.New(progress.Defaults(), &memorySaver{}, set)
	timer := session.NewTimer(trk, 25)
	return NewServer(trk, set, timer, "", dir)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "5 radicals") {
		t.Errorf("expected the radical count in the page, got: %s", rec.Body.String())
	}
}

func TestIndexUnknownPath(t *testing.T) {
	srv := newTestServer(t)

	if rec := get(t, srv, "/no-such-page"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No due items") {
		t.Error("expected an empty due list on a fresh tracker")
	}
	if !strings.Contains(rec.Body.String(), "Level progress") {
		t.Error("expected the level progress grid")
	}
	if !strings.Contains(rec.Body.String(), "HSK 7-9") {
		t.Error("expected a card for every HSK level")
	}
}

func TestRadicalListAndFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/radicals")
	if !strings.Contains(rec.Body.String(), "人") {
		t.Error("expected the radical 人 in the unfiltered list")
	}
	if !strings.Contains(rec.Body.String(), "5 radicals shown") {
		t.Errorf("expected all 5 radicals, got: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "人们") {
		t.Error("expected example words on the radical card")
	}

	rec = get(t, srv, "/radicals?level=1&mode=upto")
	if !strings.Contains(rec.Body.String(), "4 radicals shown") {
		t.Errorf("expected 4 radicals at level 1, got: %s", rec.Body.String())
	}

	rec = get(t, srv, "/radicals?search=water")
	if !strings.Contains(rec.Body.String(), "1 radicals shown") {
		t.Errorf("expected only 水 to match, got: %s", rec.Body.String())
	}
}

func TestRadicalReviewAction(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/radicals/9/review", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Stage 1") {
		t.Errorf("expected the refreshed card to show stage 1, got: %s", rec.Body.String())
	}

	if rec := postForm(t, srv, "/radicals/9999/review", url.Values{}); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown radical, got %d", rec.Code)
	}
}

func TestGrammarMasteredAction(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/grammar/g-1/mastered", url.Values{"checked": {"1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="1" checked`) {
		t.Errorf("expected the refreshed card to show a checked box, got: %s", rec.Body.String())
	}
}

func TestQuizRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/quiz/next", url.Values{
		"mode":  {"radical-mc"},
		"level": {"all"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quiz-option") {
		t.Fatalf("expected a multiple-choice question, got: %s", rec.Body.String())
	}

	rec = postForm(t, srv, "/quiz/answer", url.Values{"option": {"not-an-id"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrong") {
		t.Errorf("expected a wrong-answer result, got: %s", rec.Body.String())
	}

	// The question is consumed after one answer.
	if rec := postForm(t, srv, "/quiz/answer", url.Values{"option": {"9"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when answering with no active question, got %d", rec.Code)
	}
}

func TestQuizPoolTooSmall(t *testing.T) {
	srv := newTestServer(t)

	// Only one word exists, so word dictation under a radical with no
	// words yields an empty state rather than an error page.
	rec := postForm(t, srv, "/quiz/next", url.Values{
		"mode":    {"word-dictation"},
		"level":   {"all"},
		"radical": {"140"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not enough items") {
		t.Errorf("expected the empty-pool message, got: %s", rec.Body.String())
	}
}

func TestIntensivePanel(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/intensive")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "25:00") {
		t.Errorf("expected the focus timer at 25:00, got: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No mistakes logged yet") {
		t.Error("expected an empty mistake log")
	}
}

func TestSaveTargets(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/targets", url.Values{
		"radicals":  {"8"},
		"grammar":   {"4"},
		"words":     {"12"},
		"dictation": {"30"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="8"`) {
		t.Errorf("expected the saved radical target in the form, got: %s", rec.Body.String())
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "hsk-progress-") {
		t.Errorf("expected an attachment filename, got %q", disposition)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("progress", "progress.json")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("this is not json"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed upload, got %d", rec.Code)
	}
}

func TestTimerState(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/timer/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "25:00") {
		t.Errorf("expected the idle timer display, got: %s", rec.Body.String())
	}
}
