package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/courtside/matchcontrol/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	rosterService   *usecase.RosterService
	sanctionService *usecase.SanctionService
	rotationService *usecase.RotationService
	injuryService   *usecase.InjuryService
	auditService    *usecase.AuditService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	sanctionService *usecase.SanctionService,
	rotationService *usecase.RotationService,
	injuryService *usecase.InjuryService,
	auditService *usecase.AuditService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		rosterService:   rosterService,
		sanctionService: sanctionService,
		rotationService: rotationService,
		injuryService:   injuryService,
		auditService:    auditService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
