package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/tagsearch/pkg/tsconfig"
	"github.com/mark3labs/mcp-go/mcp"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "plain.yaml"), []byte("id: plain\ndictionary:\n  split_tags: 0\n"), 0o644)

	reg := tsconfig.NewRegistry(dir, nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewRouter(NewEndpoints(reg, nil), reg, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q", method, path, rec.Body.String())
	}
	return rec, out
}

func TestTokenTypes(t *testing.T) {
	h := setupRouter(t)
	rec, out := do(t, h, http.MethodGet, "/v1/token-types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	types := out["token_types"].([]any)
	if len(types) != 2 {
		t.Fatalf("token_types = %v", types)
	}
	first := types[0].(map[string]any)
	if first["alias"] != "tag" || first["id"] != float64(1) {
		t.Errorf("first token type = %v", first)
	}
}

func TestListConfigs(t *testing.T) {
	h := setupRouter(t)
	_, out := do(t, h, http.MethodGet, "/v1/configs", "")
	configs := out["configs"].([]any)
	if len(configs) != 2 {
		t.Errorf("configs = %v, want default and plain", configs)
	}
}

func TestParse(t *testing.T) {
	h := setupRouter(t)
	rec, out := do(t, h, http.MethodPost, "/v1/parse", `{"text":"solo character:goku"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, out)
	}
	if out["config"] != "default" {
		t.Errorf("config = %v", out["config"])
	}
	tokens := out["tokens"].([]any)
	if len(tokens) != 2 {
		t.Fatalf("tokens = %v", tokens)
	}
	second := tokens[1].(map[string]any)
	if second["alias"] != "fulltag" || second["token"] != "character:goku" || second["offset"] != float64(5) {
		t.Errorf("second token = %v", second)
	}
}

func TestLexize(t *testing.T) {
	h := setupRouter(t)

	_, out := do(t, h, http.MethodPost, "/v1/lexize", `{"term":"Character:Goku"}`)
	lexemes := out["lexemes"].([]any)
	if len(lexemes) != 2 {
		t.Fatalf("default lexemes = %v", lexemes)
	}

	_, out = do(t, h, http.MethodPost, "/v1/lexize", `{"config":"plain","term":"Character:Goku"}`)
	lexemes = out["lexemes"].([]any)
	if len(lexemes) != 1 || lexemes[0].(map[string]any)["text"] != "character:goku" {
		t.Errorf("plain lexemes = %v", lexemes)
	}
}

func TestLexizeTerm(t *testing.T) {
	h := setupRouter(t)
	rec, out := do(t, h, http.MethodGet, "/v1/lexize/Artist:Toriyama?config=default", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	lexemes := out["lexemes"].([]any)
	if len(lexemes) != 2 || lexemes[1].(map[string]any)["text"] != "toriyama" {
		t.Errorf("lexemes = %v", lexemes)
	}
}

func TestDebug(t *testing.T) {
	h := setupRouter(t)
	_, out := do(t, h, http.MethodPost, "/v1/debug", `{"text":"character:goku goku"}`)
	lexemes := out["lexemes"].([]any)
	if len(lexemes) != 2 || lexemes[0] != "character:goku" || lexemes[1] != "goku" {
		t.Errorf("lexemes = %v", lexemes)
	}
}

func TestDebugBatch(t *testing.T) {
	h := setupRouter(t)
	rec, out := do(t, h, http.MethodPost, "/v1/debug/batch", `{"texts":["a:b","c"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, out)
	}
	if results := out["results"].([]any); len(results) != 2 {
		t.Errorf("results = %v", results)
	}

	rec, _ = do(t, h, http.MethodPost, "/v1/debug/batch", `{"texts":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", rec.Code)
	}

	texts := make([]string, maxBatch+1)
	body, _ := json.Marshal(map[string]any{"texts": texts})
	rec, _ = do(t, h, http.MethodPost, "/v1/debug/batch", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized batch status = %d, want 400", rec.Code)
	}

	rec, _ = do(t, h, http.MethodGet, "/v1/debug/batch", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET batch status = %d, want 405", rec.Code)
	}
}

func TestUnknownConfig(t *testing.T) {
	h := setupRouter(t)
	rec, out := do(t, h, http.MethodPost, "/v1/parse", `{"config":"nope","text":"a"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(out["error"].(string), "nope") {
		t.Errorf("error = %v", out["error"])
	}
}

func TestInvalidJSON(t *testing.T) {
	h := setupRouter(t)
	rec, _ := do(t, h, http.MethodPost, "/v1/debug", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := setupRouter(t)
	_, out := do(t, h, http.MethodGet, "/v1/health", "")
	if out["status"] != "ok" || out["configs"] != float64(2) {
		t.Errorf("health = %v", out)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := setupRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/parse", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestMCPDecoders(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"text": "a:b", "config": "plain"}
	got, err := decodeTextReq(req)
	if err != nil {
		t.Fatal(err)
	}
	if tr := got.(*textReq); tr.Text != "a:b" || tr.Config != "plain" {
		t.Errorf("decodeTextReq = %+v", tr)
	}

	req.Params.Arguments = map[string]any{"term": "X"}
	got, err = decodeLexizeReq(req)
	if err != nil {
		t.Fatal(err)
	}
	if lr := got.(*lexizeReq); lr.Term != "X" || lr.Config != "" {
		t.Errorf("decodeLexizeReq = %+v", lr)
	}

	req.Params.Arguments = map[string]any{}
	if _, err := decodeTextReq(req); err == nil {
		t.Error("expected error for missing text")
	}
	if _, err := decodeLexizeReq(req); err == nil {
		t.Error("expected error for missing term")
	}
}

func TestNewMCPServer(t *testing.T) {
	reg := tsconfig.NewRegistry(t.TempDir(), nil)
	if err := reg.Load(); err != nil {
		t.Fatal(err)
	}
	if srv := NewMCPServer(NewEndpoints(reg, nil), "test"); srv == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

func TestUnrepresentableText(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "latin.yaml"), []byte("id: latin\nencoding: latin1\n"), 0o644)
	reg := tsconfig.NewRegistry(dir, nil)
	if err := reg.Load(); err != nil {
		t.Fatal(err)
	}
	h := NewRouter(NewEndpoints(reg, nil), reg, nil)

	rec, out := do(t, h, http.MethodPost, "/v1/parse", `{"config":"latin","text":"artist:北斎"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("parse status = %d, want 400", rec.Code)
	}
	if !strings.Contains(out["error"].(string), "not representable") {
		t.Errorf("error = %v", out["error"])
	}

	rec, _ = do(t, h, http.MethodPost, "/v1/debug/batch", `{"config":"latin","texts":["café","北斎"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("batch status = %d, want 400", rec.Code)
	}

	rec, _ = do(t, h, http.MethodPost, "/v1/lexize", `{"config":"latin","term":"Café"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("lexize status = %d, want 200", rec.Code)
	}
}
