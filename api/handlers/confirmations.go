package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

type ConfirmationsProvider interface {
	Confirmations(chain string) (uint64, bool)
}

type ConfirmationsResponse struct {
	Chain         string `json:"chain"`
	Confirmations uint64 `json:"confirmations"`
}

type ConfirmationsHandler struct {
	provider ConfirmationsProvider
}

func NewConfirmationsHandler(provider ConfirmationsProvider) *ConfirmationsHandler {
	return &ConfirmationsHandler{
		provider: provider,
	}
}

// HandleRequest returns the finality depth events of the requested chain
// are indexed at
func (h *ConfirmationsHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chain := vars["chain"]
	if chain == "" {
		JSONError(w, fmt.Errorf("invalid chain"), http.StatusBadRequest)
		return
	}

	confirmations, ok := h.provider.Confirmations(chain)
	if !ok {
		JSONError(w, fmt.Errorf("no confirmations for chain: %s", chain), http.StatusNotFound)
		return
	}

	JSONResponse(w, ConfirmationsResponse{
		Chain:         chain,
		Confirmations: confirmations,
	}, http.StatusOK)
}
