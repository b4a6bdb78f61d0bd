package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hazyhaar/tagsearch/pkg/kit"
	"github.com/hazyhaar/tagsearch/pkg/tsconfig"
	"github.com/mark3labs/mcp-go/server"
)

const maxBody = 256 * 1024

// NewRouter returns an http.Handler with all tagsearch API routes. When
// mcpSrv is non-nil its tools are also served at /mcp (streamable HTTP).
func NewRouter(eps *Endpoints, reg *tsconfig.Registry, mcpSrv *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	h := &handler{eps: eps, reg: reg}

	mux.HandleFunc("GET /v1/token-types", h.handleTokenTypes)
	mux.HandleFunc("GET /v1/configs", h.handleListConfigs)
	mux.HandleFunc("POST /v1/parse", h.handleParse)
	mux.HandleFunc("POST /v1/lexize", h.handleLexize)
	mux.HandleFunc("GET /v1/lexize/{term}", h.handleLexizeTerm)
	mux.HandleFunc("POST /v1/debug", h.handleDebug)
	mux.HandleFunc("GET /v1/debug/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/debug/batch", h.handleDebugBatch)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	if mcpSrv != nil {
		mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	}

	return cors(mux)
}

type handler struct {
	eps *Endpoints
	reg *tsconfig.Registry
}

type httpTextRequest struct {
	Config string `json:"config"`
	Text   string `json:"text"`
}

type httpLexizeRequest struct {
	Config string `json:"config"`
	Term   string `json:"term"`
}

type httpBatchRequest struct {
	Config string   `json:"config"`
	Texts  []string `json:"texts"`
}

// --- token types / configs ---

func (h *handler) handleTokenTypes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.TokenTypes, nil)
}

func (h *handler) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.ListConfigs, nil)
}

// --- parse / lexize / debug ---

func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	var req httpTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Parse, &textReq{Config: req.Config, Text: req.Text})
}

func (h *handler) handleLexize(w http.ResponseWriter, r *http.Request) {
	var req httpLexizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Lexize, &lexizeReq{Config: req.Config, Term: req.Term})
}

func (h *handler) handleLexizeTerm(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing term")
		return
	}
	h.serve(w, r, h.eps.Lexize, &lexizeReq{Config: r.URL.Query().Get("config"), Term: term})
}

func (h *handler) handleDebug(w http.ResponseWriter, r *http.Request) {
	var req httpTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Debug, &textReq{Config: req.Config, Text: req.Text})
}

func (h *handler) handleDebugBatch(w http.ResponseWriter, r *http.Request) {
	var req httpBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.DebugBatch, &batchReq{Config: req.Config, Texts: req.Texts})
}

// --- health ---

type healthResponse struct {
	Status  string `json:"status"`
	Configs int    `json:"configs"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Configs: h.reg.Count(),
	})
}

// --- helpers ---

func (h *handler) serve(w http.ResponseWriter, r *http.Request, ep kit.Endpoint, req any) {
	ctx := kit.WithTransport(r.Context(), "http")
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = kit.WithRequestID(ctx, id)
	}
	resp, err := ep(ctx, req)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, tsconfig.ErrUnknownConfig) {
			code = http.StatusNotFound
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
