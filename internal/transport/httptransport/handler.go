package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/transport/gendto"
)

type Handler struct {
	svc      app.GenerateService
	withPath bool
}

// NewHandler serves svc. withPath is used for requests that leave
// with_path unset.
func NewHandler(svc app.GenerateService, withPath bool) *Handler {
	return &Handler{svc: svc, withPath: withPath}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Generate(r.Context(), in.Request(h.withPath))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, gendto.ErrorBody("generate failed", err))
		return
	}

	contentType, body, err := gendto.Encode(res, in.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, gendto.ErrorBody("render failed", err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}

	dot, err := h.svc.Graph(in.Request(false))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, gendto.ErrorBody("graph failed", err))
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dot))
}

func decode(w http.ResponseWriter, r *http.Request) (gendto.GenerateRequest, bool) {
	var in gendto.GenerateRequest
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return in, false
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return in, false
	}
	return in, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
