package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/reconciler"
)

type TransferReconciler interface {
	Statuses(ctx context.Context, id bridge.TransferID) ([]reconciler.Status, []*bridge.Event, error)
	Reconcile(ctx context.Context, id bridge.TransferID) error
}

type EventResponse struct {
	Kind      bridge.EventKind `json:"kind"`
	Chain     string           `json:"chain"`
	Height    uint64           `json:"height"`
	Index     uint64           `json:"index"`
	Initiator string           `json:"initiator,omitempty"`
	Recipient string           `json:"recipient,omitempty"`
	HashLock  string           `json:"hashLock,omitempty"`
	TimeLock  uint64           `json:"timeLock,omitempty"`
	Amount    string           `json:"amount,omitempty"`
	PreImage  string           `json:"preImage,omitempty"`
}

type StatusResponse struct {
	Route        string       `json:"route"`
	Initiator    bridge.State `json:"initiator"`
	Counterparty bridge.State `json:"counterparty"`
	State        bridge.State `json:"state"`
}

type TransferResponse struct {
	TransferID string           `json:"transferId"`
	Statuses   []StatusResponse `json:"statuses"`
	Events     []EventResponse  `json:"events"`
}

type TransfersHandler struct {
	reconciler TransferReconciler
}

func NewTransfersHandler(reconciler TransferReconciler) *TransfersHandler {
	return &TransfersHandler{
		reconciler: reconciler,
	}
}

// HandleRequest returns the folded status of a transfer on every route
// together with the events it was folded from
func (h *TransfersHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	id, err := bridge.ParseTransferID(mux.Vars(r)["transferId"])
	if err != nil {
		JSONError(w, fmt.Errorf("invalid transferId: %w", err), http.StatusBadRequest)
		return
	}

	statuses, events, err := h.reconciler.Statuses(r.Context(), id)
	if err != nil {
		JSONError(w, err, http.StatusInternalServerError)
		return
	}
	if len(events) == 0 {
		JSONError(w, fmt.Errorf("%w: %s", bridge.ErrTransferNotFound, id), http.StatusNotFound)
		return
	}

	resp := TransferResponse{
		TransferID: id.Hex(),
		Statuses:   make([]StatusResponse, len(statuses)),
		Events:     make([]EventResponse, len(events)),
	}
	for i, s := range statuses {
		resp.Statuses[i] = StatusResponse{
			Route:        s.Route,
			Initiator:    s.Initiator,
			Counterparty: s.Counterparty,
			State:        s.State,
		}
	}
	for i, e := range events {
		resp.Events[i] = eventResponse(e)
	}
	JSONResponse(w, resp, http.StatusOK)
}

// HandleReconcile reconciles a transfer immediately instead of waiting for
// the next reconciliation pass
func (h *TransfersHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	id, err := bridge.ParseTransferID(mux.Vars(r)["transferId"])
	if err != nil {
		JSONError(w, fmt.Errorf("invalid transferId: %w", err), http.StatusBadRequest)
		return
	}

	err = h.reconciler.Reconcile(r.Context(), id)
	if err != nil {
		JSONError(w, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func eventResponse(e *bridge.Event) EventResponse {
	resp := EventResponse{
		Kind:     e.Kind,
		Chain:    e.Chain,
		Height:   e.Height,
		Index:    e.Index,
		TimeLock: uint64(e.TimeLock),
	}
	if len(e.Initiator) > 0 {
		resp.Initiator = e.Initiator.Hex()
	}
	if len(e.Recipient) > 0 {
		resp.Recipient = e.Recipient.Hex()
	}
	if e.HashLock != (bridge.HashLock{}) {
		resp.HashLock = e.HashLock.Hex()
	}
	if e.Amount.Asset != "" {
		resp.Amount = e.Amount.String()
	}
	if len(e.PreImage) > 0 {
		resp.PreImage = e.PreImage.Hex()
	}
	return resp
}
