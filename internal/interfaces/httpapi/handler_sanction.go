package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/sanction"
	"github.com/courtside/matchcontrol/internal/usecase"
)

type sanctionDTO struct {
	ID              string    `json:"id"`
	MatchID         string    `json:"matchId"`
	Kind            string    `json:"kind"`
	Severity        string    `json:"severity"`
	SetID           string    `json:"setId"`
	TeamID          string    `json:"teamId"`
	PlayerProfileID string    `json:"playerProfileId,omitempty"`
	CoachProfileID  string    `json:"coachProfileId,omitempty"`
	IssuedAt        time.Time `json:"issuedAt"`
}

type recordSanctionRequest struct {
	Kind            string `json:"kind" validate:"required,oneof=TEAM MEMBER"`
	Severity        string `json:"severity" validate:"required,oneof=WARNING POINT_AGAINST SET_EXPULSION GAME_EXPULSION"`
	SetID           string `json:"setId" validate:"required"`
	TeamID          string `json:"teamId" validate:"required"`
	PlayerProfileID string `json:"playerProfileId"`
	CoachProfileID  string `json:"coachProfileId"`
}

func sanctionToDTO(ctx context.Context, item sanction.Sanction) sanctionDTO {
	_, span := startSpan(ctx, "httpapi.sanctionToDTO")
	defer span.End()

	return sanctionDTO{
		ID:              item.ID,
		MatchID:         item.MatchID,
		Kind:            string(item.Kind),
		Severity:        string(item.Severity),
		SetID:           item.SetID,
		TeamID:          item.TeamID,
		PlayerProfileID: item.PlayerProfileID,
		CoachProfileID:  item.CoachProfileID,
		IssuedAt:        item.IssuedAt,
	}
}

func (h *Handler) RecordSanction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSanction")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req recordSanctionRequest
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

	recorded, err := h.sanctionService.Record(ctx, usecase.RecordSanctionInput{
		MatchID:         matchID,
		Kind:            sanction.Kind(req.Kind),
		Severity:        sanction.Severity(req.Severity),
		SetID:           req.SetID,
		TeamID:          req.TeamID,
		PlayerProfileID: req.PlayerProfileID,
		CoachProfileID:  req.CoachProfileID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record sanction failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sanctionToDTO(ctx, recorded))
}

func (h *Handler) ListSanctions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSanctions")
	defer span.End()

	matchID := r.PathValue("matchID")
	history, err := h.sanctionService.History(ctx, matchID, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "list sanctions failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]sanctionDTO, 0, len(history))
	for _, item := range history {
		items = append(items, sanctionToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// AvailableSeverities answers which ladder rungs remain assignable. kind=TEAM
// queries tolerate missing scope and fall back to the full team ladder;
// kind=MEMBER queries without full scope are a missing-scope failure, never an
// empty list.
func (h *Handler) AvailableSeverities(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AvailableSeverities")
	defer span.End()

	matchID := r.PathValue("matchID")
	query := r.URL.Query()
	kind := strings.ToUpper(strings.TrimSpace(query.Get("kind")))
	setID := query.Get("setId")
	teamID := query.Get("teamId")

	var (
		available []sanction.Severity
		err       error
	)
	switch kind {
	case string(sanction.KindTeam):
		available, err = h.sanctionService.AvailableForTeam(ctx, matchID, setID, teamID)
	case string(sanction.KindMember):
		role := sanction.MemberRole(strings.ToUpper(strings.TrimSpace(query.Get("role"))))
		available, err = h.sanctionService.AvailableForMember(ctx, matchID, setID, teamID, query.Get("profileId"), role)
	default:
		err = fmt.Errorf("%w: kind must be TEAM or MEMBER", usecase.ErrInvalidInput)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "available severities failed", "match_id", matchID, "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]string, 0, len(available))
	for _, s := range available {
		items = append(items, string(s))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"severities": items})
}

func (h *Handler) MostRecentSanction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MostRecentSanction")
	defer span.End()

	matchID := r.PathValue("matchID")
	query := r.URL.Query()
	scope := sanction.Scope(strings.ToUpper(strings.TrimSpace(query.Get("scope"))))
	if scope != sanction.ScopeSet && scope != sanction.ScopeGame {
		writeError(ctx, w, fmt.Errorf("%w: scope must be SET or GAME", usecase.ErrInvalidInput))
		return
	}
	role := sanction.MemberRole(strings.ToUpper(strings.TrimSpace(query.Get("role"))))

	item, exists, err := h.sanctionService.MostRecentForMember(
		ctx,
		matchID,
		query.Get("setId"),
		query.Get("teamId"),
		query.Get("profileId"),
		role,
		scope,
	)
	if err != nil {
		h.logger.WarnContext(ctx, "most recent sanction failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sanctionToDTO(ctx, item))
}
