package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type rotationSlotDTO struct {
	ProfileID            string `json:"profileId"`
	RotationID           string `json:"rotationId"`
	ReplacementProfileID string `json:"replacementProfileId,omitempty"`
	InCourtProfileID     string `json:"inCourtProfileId"`
	Position             int    `json:"position"`
	IsLibero             bool   `json:"isLibero"`
}

type rotationDTO struct {
	ID        string            `json:"id"`
	CallID    string            `json:"callId"`
	SetID     string            `json:"setId"`
	TeamID    string            `json:"teamId"`
	Number    int               `json:"number"`
	Locked    bool              `json:"locked"`
	Slots     []rotationSlotDTO `json:"slots"`
	CreatedAt time.Time         `json:"createdAt"`
}

type substitutionRequest struct {
	MatchID    string `json:"matchId" validate:"required"`
	TeamID     string `json:"teamId" validate:"required"`
	OutgoingID string `json:"outgoingProfileId" validate:"required"`
	IncomingID string `json:"incomingProfileId" validate:"required"`
}

func rotationToDTO(ctx context.Context, item rotation.Rotation) rotationDTO {
	_, span := startSpan(ctx, "httpapi.rotationToDTO")
	defer span.End()

	slots := make([]rotationSlotDTO, 0, len(item.Slots))
	for _, s := range item.Slots {
		slots = append(slots, rotationSlotDTO{
			ProfileID:            s.ProfileID,
			RotationID:           s.RotationID,
			ReplacementProfileID: s.ReplacementProfileID,
			InCourtProfileID:     s.InCourtProfileID,
			Position:             s.Position,
			IsLibero:             s.IsLibero,
		})
	}

	return rotationDTO{
		ID:        item.ID,
		CallID:    item.CallID,
		SetID:     item.SetID,
		TeamID:    item.TeamID,
		Number:    item.Number,
		Locked:    item.Locked,
		Slots:     slots,
		CreatedAt: item.CreatedAt,
	}
}

func (h *Handler) GetCurrentRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRotation")
	defer span.End()

	callID := r.PathValue("callID")
	setID := r.PathValue("setID")

	item, exists, err := h.rotationService.Current(ctx, callID, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "get current rotation failed", "call_id", callID, "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: rotation call=%s set=%s", usecase.ErrNotFound, callID, setID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rotationToDTO(ctx, item))
}

func (h *Handler) ApplySubstitution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplySubstitution")
	defer span.End()

	callID := r.PathValue("callID")
	setID := r.PathValue("setID")

	var req substitutionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	next, err := h.rotationService.Substitute(ctx, usecase.SubstitutionInput{
		MatchID:    req.MatchID,
		TeamID:     req.TeamID,
		CallID:     callID,
		SetID:      setID,
		OutgoingID: req.OutgoingID,
		IncomingID: req.IncomingID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply substitution failed", "call_id", callID, "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rotationToDTO(ctx, next))
}

func (h *Handler) LockRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockRotation")
	defer span.End()

	callID := r.PathValue("callID")
	setID := r.PathValue("setID")

	locked, err := h.rotationService.Lock(ctx, callID, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "lock rotation failed", "call_id", callID, "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rotationToDTO(ctx, locked))
}

func (h *Handler) GetRotationIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRotationIndex")
	defer span.End()

	callID := r.PathValue("callID")
	setID := r.PathValue("setID")

	index, err := h.rotationService.CurrentIndex(ctx, callID, setID)
	if err != nil {
		h.logger.WarnContext(ctx, "rotation index failed", "call_id", callID, "set_id", setID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, index)
}
