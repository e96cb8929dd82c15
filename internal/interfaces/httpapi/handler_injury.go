package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type injuryDTO struct {
	ID                   string    `json:"id"`
	GameID               string    `json:"gameId"`
	SetID                string    `json:"setId"`
	RotationID           string    `json:"rotationId"`
	TeamID               string    `json:"teamId"`
	PlayerRotationID     string    `json:"playerRotationId"`
	ProfileID            string    `json:"profileId"`
	ReplacementProfileID string    `json:"replacementProfileId"`
	IsLibero             bool      `json:"isLibero"`
	Description          string    `json:"description"`
	ReportedAt           time.Time `json:"reportedAt"`
}

type injuryReportItemRequest struct {
	PlayerRotationID     string `json:"playerRotationId"`
	ProfileID            string `json:"profileId"`
	ReplacementProfileID string `json:"replacementProfileId"`
	Description          string `json:"description"`
}

type injuryReportRequest struct {
	SetID      string                    `json:"setId"`
	RotationID string                    `json:"rotationId"`
	TeamID     string                    `json:"teamId"`
	Items      []injuryReportItemRequest `json:"items"`
}

type injuryReportResponse struct {
	Injuries []injuryDTO `json:"injuries"`
	Rotation rotationDTO `json:"rotation"`
}

func injuryToDTO(ctx context.Context, item injury.Injury) injuryDTO {
	_, span := startSpan(ctx, "httpapi.injuryToDTO")
	defer span.End()

	return injuryDTO{
		ID:                   item.ID,
		GameID:               item.GameID,
		SetID:                item.SetID,
		RotationID:           item.RotationID,
		TeamID:               item.TeamID,
		PlayerRotationID:     item.PlayerRotationID,
		ProfileID:            item.ProfileID,
		ReplacementProfileID: item.ReplacementProfileID,
		IsLibero:             item.IsLibero,
		Description:          item.Description,
		ReportedAt:           item.ReportedAt,
	}
}

// SubmitInjuryReport accepts the raw injury form. Field presence is checked by
// the report validator so the client receives the first missing field as a
// stable diagnostic key, one at a time.
func (h *Handler) SubmitInjuryReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitInjuryReport")
	defer span.End()

	gameID := r.PathValue("gameID")

	var req injuryReportRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	items := make([]injury.ReportItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, injury.ReportItem{
			PlayerRotationID:     item.PlayerRotationID,
			ProfileID:            item.ProfileID,
			ReplacementProfileID: item.ReplacementProfileID,
			Description:          item.Description,
		})
	}

	result, err := h.injuryService.Submit(ctx, injury.Report{
		GameID:     gameID,
		SetID:      req.SetID,
		RotationID: req.RotationID,
		TeamID:     req.TeamID,
		Items:      items,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit injury report failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	injuries := make([]injuryDTO, 0, len(result.Injuries))
	for _, item := range result.Injuries {
		injuries = append(injuries, injuryToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusCreated, injuryReportResponse{
		Injuries: injuries,
		Rotation: rotationToDTO(ctx, result.Rotation),
	})
}

func (h *Handler) ListInjuries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInjuries")
	defer span.End()

	gameID := r.PathValue("gameID")
	listed, err := h.injuryService.ListByGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "list injuries failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]injuryDTO, 0, len(listed))
	for _, item := range listed {
		items = append(items, injuryToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
