package transport

import (
	"net/http"

	"go.uber.org/zap"
)

// StateHandler serves the chain state JSON.
type StateHandler struct {
	state  StateProvider
	logger *zap.Logger
}

// NewStateHandler returns a StateHandler backed by state.
func NewStateHandler(state StateProvider, logger *zap.Logger) *StateHandler {
	return &StateHandler{state: state, logger: logger.Named("stateHandler")}
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, err := h.state.State(r.Context())
	if err != nil {
		h.logger.Error("build state failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(payload); err != nil {
		h.logger.Debug("write state response failed", zap.Error(err))
	}
}
