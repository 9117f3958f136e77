package httpapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/gokepelemo/biensperience/internal/service"
)

type SyncHandler struct {
	sync service.SyncService
}

func NewSyncHandler(sync service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// applySyncBody pins the selection to the versions the caller previewed.
// All selects every entry of the changeset at those versions.
type applySyncBody struct {
	PlanVersion       int64               `json:"plan_version"`
	ExperienceVersion int64               `json:"experience_version"`
	All               bool                `json:"all"`
	Selection         reconcile.Selection `json:"selection"`
}

// GET /api/plans/:id/divergence
func (h *SyncHandler) CheckDivergence(c *gin.Context) {
	report, err := h.sync.CheckDivergence(c.Request.Context(), domain.ParseID(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

// GET /api/plans/:id/changeset
func (h *SyncHandler) PreviewChangeset(c *gin.Context) {
	preview, err := h.sync.PreviewChangeset(c.Request.Context(), domain.ParseID(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, preview)
}

// POST /api/plans/:id/sync
func (h *SyncHandler) ApplySync(c *gin.Context) {
	var body applySyncBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	if body.PlanVersion <= 0 || body.ExperienceVersion <= 0 {
		respondBadRequest(c, fmt.Errorf("plan_version and experience_version are required"))
		return
	}

	planID := domain.ParseID(c.Param("id"))
	sel := body.Selection
	if body.All {
		preview, err := h.sync.PreviewChangeset(c.Request.Context(), planID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if preview.PlanVersion != body.PlanVersion || preview.ExperienceVersion != body.ExperienceVersion {
			respondServiceError(c, fmt.Errorf("%w: previewed plan v%d / experience v%d, now at v%d / v%d",
				domain.ErrVersionConflict, body.PlanVersion, body.ExperienceVersion, preview.PlanVersion, preview.ExperienceVersion))
			return
		}
		sel = reconcile.SelectAll(preview.Changes)
	}

	resp, err := h.sync.ApplySync(c.Request.Context(), app.ApplySyncRequest{
		PlanID:            planID,
		Actor:             actor(c),
		PlanVersion:       body.PlanVersion,
		ExperienceVersion: body.ExperienceVersion,
		Selection:         sel,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, resp)
}
