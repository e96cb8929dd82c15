package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type rosterEntryDTO struct {
	ProfileID   string `json:"profileId" validate:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Avatar      string `json:"avatar,omitempty"`
	ShirtNumber int    `json:"shirtNumber" validate:"required,min=1"`
	IsCaptain   bool   `json:"isCaptain"`
	IsLibero    bool   `json:"isLibero"`
}

type rosterDTO struct {
	ID        string           `json:"id"`
	MatchID   string           `json:"matchId"`
	TeamID    string           `json:"teamId"`
	Locked    bool             `json:"locked"`
	Entries   []rosterEntryDTO `json:"entries"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type saveRosterRequest struct {
	Entries []rosterEntryDTO `json:"entries" validate:"required,min=1,dive"`
}

func rosterToDTO(ctx context.Context, item roster.Roster) rosterDTO {
	_, span := startSpan(ctx, "httpapi.rosterToDTO")
	defer span.End()

	entries := make([]rosterEntryDTO, 0, len(item.Entries))
	for _, e := range item.Entries {
		entries = append(entries, rosterEntryDTO{
			ProfileID:   e.ProfileID,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Avatar:      e.Avatar,
			ShirtNumber: e.ShirtNumber,
			IsCaptain:   e.IsCaptain,
			IsLibero:    e.IsLibero,
		})
	}

	return rosterDTO{
		ID:        item.ID,
		MatchID:   item.MatchID,
		TeamID:    item.TeamID,
		Locked:    item.Locked,
		Entries:   entries,
		UpdatedAt: item.UpdatedAt,
	}
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	teamID := r.PathValue("teamID")

	item, exists, err := h.rosterService.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: roster match=%s team=%s", usecase.ErrNotFound, matchID, teamID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, item))
}

func (h *Handler) SaveRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	teamID := r.PathValue("teamID")

	var req saveRosterRequest
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

	entries := make([]roster.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, roster.Entry{
			ProfileID:   e.ProfileID,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Avatar:      e.Avatar,
			ShirtNumber: e.ShirtNumber,
			IsCaptain:   e.IsCaptain,
			IsLibero:    e.IsLibero,
		})
	}

	saved, err := h.rosterService.Save(ctx, usecase.SaveRosterInput{
		MatchID: matchID,
		TeamID:  teamID,
		Entries: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save roster failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, saved))
}

func (h *Handler) LockRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	teamID := r.PathValue("teamID")

	locked, err := h.rosterService.Lock(ctx, matchID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "lock roster failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, locked))
}
