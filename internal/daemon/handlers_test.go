package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/pacer/internal/config"
	"github.com/felixgeelhaar/pacer/internal/domain"
)

const testManifest = `id: lionagi-v1
name: LionAGI Fundamentals
modules:
  - id: lionagi-v1/branches
    title: Working with Branches
    skill_level: beginner
    complexity_factor: 0.8
    max_hints: 3
    expected_duration: 10m
  - id: lionagi-v1/operate
    title: Structured Operations
    skill_level: intermediate
    complexity_factor: 1.2
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	catalogDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(catalogDir, "lionagi-v1.yaml"), []byte(testManifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg := config.DefaultLocalConfig()
	cfg.Storage.Backend = "json"
	cfg.Queue.Enabled = false

	srv, err := NewServer(context.Background(), ServerConfig{
		Config:       cfg,
		CatalogPath:  catalogDir,
		SessionsPath: t.TempDir(),
		DataPath:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["storage"] != "json" {
		t.Errorf("storage = %v, want json", body["storage"])
	}
	if body["modules"] != float64(2) {
		t.Errorf("modules = %v, want 2", body["modules"])
	}
}

func TestHandleListModules(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/modules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Modules []map[string]any `json:"modules"`
	}
	decodeBody(t, rec, &body)
	if len(body.Modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(body.Modules))
	}
	if body.Modules[0]["id"] != "lionagi-v1/branches" {
		t.Errorf("first module = %v", body.Modules[0]["id"])
	}
}

func TestHandleGetModule(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/modules/lionagi-v1/branches", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/modules/lionagi-v1/quantum", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown module status = %d, want 404", rec.Code)
	}
}

func TestHandleRecordObservation(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/observations", map[string]any{
		"user_id":   "ada",
		"module_id": "lionagi-v1/branches",
		"observation": map[string]float64{
			"accuracy":    0.8,
			"speed":       0.7,
			"consistency": 0.9,
			"engagement":  0.8,
			"frustration": 0.1,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var adj domain.DifficultyAdjustment
	decodeBody(t, rec, &adj)
	if adj.UserID != "ada" || adj.ModuleID != "lionagi-v1/branches" {
		t.Errorf("identity = %s/%s", adj.UserID, adj.ModuleID)
	}
	if adj.New < 0.1 || adj.New > 1.0 {
		t.Errorf("New = %f out of bounds", adj.New)
	}
}

func TestHandleRecordObservation_Validation(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/observations", map[string]any{
		"module_id": "lionagi-v1/branches",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing user_id status = %d, want 400", rec.Code)
	}
}

func TestHandlePredict(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/predictions", map[string]any{
		"user_id":   "ada",
		"module_id": "lionagi-v1/branches",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	// Beginner base 0.2 scaled by complexity 0.8, floored at the minimum.
	if body["difficulty"] != 0.16 {
		t.Errorf("difficulty = %v, want 0.16", body["difficulty"])
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/predictions", map[string]any{
		"user_id":   "ada",
		"module_id": "nope",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown module status = %d, want 404", rec.Code)
	}
}

func TestHandleGetDifficulty_Default(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/users/ada/difficulty/lionagi-v1/branches", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["difficulty"] != 0.5 {
		t.Errorf("difficulty = %v, want default 0.5", body["difficulty"])
	}
	if body["module_id"] != "lionagi-v1/branches" {
		t.Errorf("module_id = %v", body["module_id"])
	}
}

func TestHandleGetModel(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/users/ada/model", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unseen user status = %d, want 404", rec.Code)
	}

	doRequest(t, srv, http.MethodPost, "/v1/observations", map[string]any{
		"user_id":     "ada",
		"module_id":   "lionagi-v1/branches",
		"observation": map[string]float64{"accuracy": 0.8},
	})

	rec = doRequest(t, srv, http.MethodGet, "/v1/users/ada/model", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var model domain.UserModel
	decodeBody(t, rec, &model)
	if model.UserID != "ada" {
		t.Errorf("UserID = %s", model.UserID)
	}
}

func TestHandleGetHistoryAndProgress(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 3; i++ {
		doRequest(t, srv, http.MethodPost, "/v1/observations", map[string]any{
			"user_id":     "ada",
			"module_id":   "lionagi-v1/branches",
			"observation": map[string]float64{"accuracy": 0.7, "engagement": 0.6},
		})
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/users/ada/history/lionagi-v1/branches", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, want 200", rec.Code)
	}
	var history struct {
		Adjustments []domain.DifficultyAdjustment `json:"adjustments"`
	}
	decodeBody(t, rec, &history)
	if len(history.Adjustments) != 3 {
		t.Errorf("adjustments = %d, want 3", len(history.Adjustments))
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/users/ada/progress", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress status = %d, want 200", rec.Code)
	}
	var report struct {
		Observations int `json:"observations"`
	}
	decodeBody(t, rec, &report)
	if report.Observations != 3 {
		t.Errorf("observations = %d, want 3", report.Observations)
	}
}

func TestAttemptLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/attempts", map[string]any{
		"user_id":   "ada",
		"module_id": "lionagi-v1/branches",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var started struct {
		Attempt    struct{ ID string } `json:"attempt"`
		Difficulty float64             `json:"difficulty"`
	}
	decodeBody(t, rec, &started)
	if started.Attempt.ID == "" {
		t.Fatal("attempt ID missing")
	}
	if started.Difficulty != 0.16 {
		t.Errorf("seeded difficulty = %f, want 0.16", started.Difficulty)
	}

	id := started.Attempt.ID

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+id+"/runs", map[string]any{
		"errors": []string{"ImportError"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("run status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+id+"/runs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty-body run status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+id+"/hints", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hint status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+id+"/complete", map[string]any{
		"score":   0.85,
		"success": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	var adj domain.DifficultyAdjustment
	decodeBody(t, rec, &adj)
	if adj.UserID != "ada" {
		t.Errorf("adjustment UserID = %s", adj.UserID)
	}

	// Completing a finished attempt conflicts.
	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+id+"/complete", map[string]any{
		"score": 1.0,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("double complete status = %d, want 409", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/attempts/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get attempt status = %d", rec.Code)
	}
}

func TestAttemptAbandon(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/attempts", map[string]any{
		"user_id":   "ada",
		"module_id": "lionagi-v1/operate",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d", rec.Code)
	}
	var started struct {
		Attempt struct{ ID string } `json:"attempt"`
	}
	decodeBody(t, rec, &started)

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/"+started.Attempt.ID+"/abandon", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("abandon status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	var adj domain.DifficultyAdjustment
	decodeBody(t, rec, &adj)
	if adj.Observation.Accuracy != 0 {
		t.Errorf("abandoned accuracy = %f, want 0", adj.Observation.Accuracy)
	}
}

func TestAttemptNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/attempts/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/v1/attempts/ghost/hints", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("hint status = %d, want 404", rec.Code)
	}
}
