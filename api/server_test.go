package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"slidecast/prompt"
	"slidecast/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	styles, err := prompt.NewCatalog(filepath.Join(dir, "prompts.json"))
	if err != nil {
		t.Fatal(err)
	}
	meta := store.NewMetadataStore(filepath.Join(dir, "metadata.json"))

	return NewRouter(Deps{
		Styles: styles,
		Keys:   store.NewKeyStore(filepath.Join(dir, "api_keys.txt")),
		Files:  store.NewFileManager(filepath.Join(dir, "outputs"), filepath.Join(dir, "images"), meta),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "render_profile") {
		t.Errorf("health response should include the render profile: %s", w.Body.String())
	}
}

func TestPromptRoutes(t *testing.T) {
	r := newTestRouter(t)

	// seeded defaults
	w := doJSON(t, r, http.MethodGet, "/api/prompts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Prompts []struct {
			ID string `json:"id"`
		} `json:"prompts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Prompts) != 3 {
		t.Fatalf("got %d seeded templates, want 3", len(listed.Prompts))
	}

	// add
	w = doJSON(t, r, http.MethodPost, "/api/prompts", map[string]string{
		"name":   "Retro",
		"prompt": "retro futurism, grainy film",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &added); err != nil {
		t.Fatal(err)
	}

	// update
	w = doJSON(t, r, http.MethodPut, "/api/prompts/"+added.ID, map[string]string{
		"name":   "Retro",
		"prompt": "retro futurism, saturated",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	// defaults are protected
	w = doJSON(t, r, http.MethodDelete, "/api/prompts/"+prompt.DefaultTemplateID, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("delete default status = %d, want 403", w.Code)
	}

	// unknown id
	w = doJSON(t, r, http.MethodDelete, "/api/prompts/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete unknown status = %d, want 404", w.Code)
	}

	// added templates can be removed
	w = doJSON(t, r, http.MethodDelete, "/api/prompts/"+added.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
}

func TestKeyRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/keys", map[string]string{"name": "COHERE_API_KEY", "value": "abc"})
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/keys", map[string]string{"name": "", "value": "abc"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/keys", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"COHERE_API_KEY":true`) {
		t.Errorf("listing should mark the key configured: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "abc") {
		t.Error("key values must never be echoed back")
	}
}

func TestFileRoutesEmpty(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/files", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/files/missing.mp4", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", w.Code)
	}
}
