package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type auditRequest struct {
	MatchIDs   []string `json:"matchIds" validate:"required,min=1"`
	SetIDs     []string `json:"setIds"`
	MaxWorkers int      `json:"maxWorkers" validate:"omitempty,min=1,max=64"`
}

func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAudit")
	defer span.End()

	var req auditRequest
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

	result, err := h.auditService.Run(ctx, usecase.AuditInput{
		MatchIDs:   req.MatchIDs,
		SetIDs:     req.SetIDs,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "audit run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
