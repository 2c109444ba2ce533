package upload

import "net/http"

// OptionsV1 answers preflight requests
func (h *HandlerV1) OptionsV1(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, HEAD, GET, POST, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Range, Content-Disposition")
	w.WriteHeader(http.StatusNoContent)
}
