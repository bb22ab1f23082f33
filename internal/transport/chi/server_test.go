package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
	answeruc "github.com/podiumlabs/podium/internal/usecase/answer"
	embeduc "github.com/podiumlabs/podium/internal/usecase/embedquestion"
	healthuc "github.com/podiumlabs/podium/internal/usecase/health"
)

// --- Mocks ---

type mockVerifier struct {
	err   error
	calls int
}

func (m *mockVerifier) GetUser(_ context.Context, _ string) (domain.Principal, error) {
	m.calls++
	if m.err != nil {
		return domain.Principal{}, m.err
	}
	return domain.Principal{ID: "user-123"}, nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) EmbedQuestion(_ context.Context, _ string) ([]float32, error) {
	return m.vec, m.err
}

type mockCompleter struct {
	answer string
	err    error
}

func (m *mockCompleter) Complete(_ context.Context, _ string) (string, error) {
	return m.answer, m.err
}

type mockRecorder struct {
	mu        sync.Mutex
	questions []domain.QuestionEvent
	citations [][]domain.CitationEvent
	err       error
}

func (m *mockRecorder) InsertQuestion(_ context.Context, e domain.QuestionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, e)
	return m.err
}

func (m *mockRecorder) InsertCitations(_ context.Context, events []domain.CitationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.citations = append(m.citations, events)
	return m.err
}

type testDeps struct {
	verifier  *mockVerifier
	embedder  *mockEmbedder
	completer *mockCompleter
	recorder  *mockRecorder
}

func newTestRouter(d *testDeps) http.Handler {
	logger := zap.NewNop()

	embed := embeduc.NewService(d.embedder, d.recorder, logger)
	answer := answeruc.NewService(d.completer, d.recorder, logger)
	health := healthuc.New(nil, nil)

	srv := NewServer(embed, answer, health, logger)

	r := chirouter.NewRouter()
	r.Use(CORSMiddleware())
	r.Use(AuthMiddleware(d.verifier, logger))
	r.Post("/embed-question", srv.EmbedQuestion)
	r.Post("/generate-answer", srv.GenerateAnswer)
	r.Get("/health", srv.HealthCheck)
	return r
}

func defaultDeps() *testDeps {
	return &testDeps{
		verifier:  &mockVerifier{},
		embedder:  &mockEmbedder{vec: []float32{0.1, 0.2}},
		completer: &mockCompleter{answer: "Faith is a principle of action."},
		recorder:  &mockRecorder{},
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

// --- Tests ---

func TestPreflight(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rec := doRequest(t, router, http.MethodOptions, "/embed-question", "", "")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body %q, got %q", "ok", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow-origin: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("unexpected allow-headers: %q", got)
	}
}

func TestEmbedQuestion_MissingAuthHeader(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{"question":"Q"}`, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Missing authorization header" {
		t.Errorf("unexpected error message: %q", msg)
	}
	if deps.verifier.calls != 0 {
		t.Errorf("verifier must not be called without a header, got %d calls", deps.verifier.calls)
	}
}

func TestEmbedQuestion_Rejected(t *testing.T) {
	deps := defaultDeps()
	deps.verifier.err = domain.ErrUnauthorized
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{"question":"Q"}`, "Bearer bad")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Unauthorized" {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestEmbedQuestion(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodPost, "/embed-question",
		`{"question":"What is faith?"}`, "Bearer token")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Embedding) != 2 || resp.Embedding[0] != 0.1 {
		t.Errorf("unexpected embedding: %v", resp.Embedding)
	}

	if len(deps.recorder.questions) != 1 {
		t.Fatalf("expected one question event, got %d", len(deps.recorder.questions))
	}
	if deps.recorder.questions[0].SearchType != "semantic" {
		t.Errorf("search type = %q, want semantic", deps.recorder.questions[0].SearchType)
	}
}

func TestEmbedQuestion_MissingQuestion(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{}`, "Bearer token")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Missing question" {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestEmbedQuestion_MalformedBody(t *testing.T) {
	router := newTestRouter(defaultDeps())

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{not json`, "Bearer token")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for malformed body, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg == "" {
		t.Error("expected the parse error message in the body")
	}
}

func TestEmbedQuestion_ProviderError(t *testing.T) {
	deps := defaultDeps()
	deps.embedder.err = errors.New("rate limit exceeded")
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{"question":"Q"}`, "Bearer token")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "rate limit exceeded") {
		t.Errorf("expected provider message in body, got %q", msg)
	}
}

func TestEmbedQuestion_RecorderFailureIsolated(t *testing.T) {
	deps := defaultDeps()
	deps.recorder.err = errors.New("analytics down")
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodPost, "/embed-question", `{"question":"Q"}`, "Bearer token")

	if rec.Code != http.StatusOK {
		t.Errorf("recorder failure must not change the response, got %d", rec.Code)
	}
}

func TestGenerateAnswer(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(deps)

	body := `{"question":"What is faith?","context_talks":[` +
		`{"title":"Faith","speaker":"A","text":"T1","talk_id":"t1"},` +
		`{"title":"Hope","speaker":"B","text":"T2"}]}`
	rec := doRequest(t, router, http.MethodPost, "/generate-answer", body, "Bearer token")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "Faith is a principle of action." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}

	if len(deps.recorder.citations) != 1 {
		t.Fatalf("expected one citation batch, got %d", len(deps.recorder.citations))
	}
	events := deps.recorder.citations[0]
	if len(events) != 2 {
		t.Fatalf("expected 2 citation events, got %d", len(events))
	}
	if events[1].TalkID != "Hope" {
		t.Errorf("expected title fallback for missing talk id, got %q", events[1].TalkID)
	}
	if len(deps.recorder.questions) != 1 || deps.recorder.questions[0].SearchType != "rag" {
		t.Errorf("expected one rag question event, got %+v", deps.recorder.questions)
	}
}

func TestGenerateAnswer_MissingFields(t *testing.T) {
	router := newTestRouter(defaultDeps())

	for _, body := range []string{
		`{}`,
		`{"question":"Q"}`,
		`{"context_talks":[{"title":"T","speaker":"S","text":"X"}]}`,
		`{"question":"Q","context_talks":[]}`,
	} {
		rec := doRequest(t, router, http.MethodPost, "/generate-answer", body, "Bearer token")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			continue
		}
		if msg := decodeError(t, rec); msg != "Missing question or context_talks" {
			t.Errorf("body %s: unexpected error message %q", body, msg)
		}
	}
}

func TestGenerateAnswer_ProviderError(t *testing.T) {
	deps := defaultDeps()
	deps.completer.err = errors.New("upstream failure")
	router := newTestRouter(deps)

	body := `{"question":"Q","context_talks":[{"title":"T","speaker":"S","text":"X"}]}`
	rec := doRequest(t, router, http.MethodPost, "/generate-answer", body, "Bearer token")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "upstream failure") {
		t.Errorf("expected provider message in body, got %q", msg)
	}
}

func TestHealth_NoAuthRequired(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(deps)

	rec := doRequest(t, router, http.MethodGet, "/health", "", "")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if deps.verifier.calls != 0 {
		t.Errorf("health must bypass auth, verifier called %d times", deps.verifier.calls)
	}
}
