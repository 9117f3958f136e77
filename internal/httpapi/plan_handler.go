package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/service"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type PlanHandler struct {
	plans service.PlanService
}

func NewPlanHandler(plans service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

type createPlanBody struct {
	ExperienceID domain.ID `json:"experience_id"`
	PlannedDate  *string   `json:"planned_date"`
}

type replaceItemsBody struct {
	ExpectedVersion int64                     `json:"expected_version"`
	Items           []domain.PlanItemInstance `json:"items"`
}

type updatePlanItemBody struct {
	Complete *bool            `json:"complete"`
	Cost     *decimal.Decimal `json:"cost"`
}

type plannedDateBody struct {
	PlannedDate *string `json:"planned_date"`
}

type collaboratorBody struct {
	User string `json:"user"`
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid planned_date %q: %w", *s, err)
	}
	return &t, nil
}

// GET /api/plans lists the plans the acting user owns or collaborates on.
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.plans.ListForUser(c.Request.Context(), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

// POST /api/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var body createPlanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	date, err := parseDate(body.PlannedDate)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	plan, err := h.plans.CreateFromExperience(c.Request.Context(), app.CreatePlanRequest{
		ExperienceID: body.ExperienceID,
		Owner:        actor(c),
		PlannedDate:  date,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GET /api/plans/:id returns the plan with its aggregates.
func (h *PlanHandler) Get(c *gin.Context) {
	view, err := h.plans.View(c.Request.Context(), domain.ParseID(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

// DELETE /api/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/plans/:id/items
func (h *PlanHandler) ReplaceItems(c *gin.Context) {
	var body replaceItemsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	if body.Items == nil {
		body.Items = []domain.PlanItemInstance{}
	}
	plan, err := h.plans.ReplaceItems(c.Request.Context(), app.ReplacePlanItemsRequest{
		PlanID:          domain.ParseID(c.Param("id")),
		Actor:           actor(c),
		ExpectedVersion: body.ExpectedVersion,
		Items:           body.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

// PATCH /api/plans/:id/items/:itemId
func (h *PlanHandler) UpdateItem(c *gin.Context) {
	var body updatePlanItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	plan, err := h.plans.UpdateItem(c.Request.Context(), app.UpdatePlanItemRequest{
		PlanID:   domain.ParseID(c.Param("id")),
		ItemID:   domain.ParseID(c.Param("itemId")),
		Actor:    actor(c),
		Complete: body.Complete,
		Cost:     body.Cost,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

// PUT /api/plans/:id/planned-date; a null or empty date clears it.
func (h *PlanHandler) SetPlannedDate(c *gin.Context) {
	var body plannedDateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	date, err := parseDate(body.PlannedDate)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	plan, err := h.plans.SetPlannedDate(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

// POST /api/plans/:id/collaborators
func (h *PlanHandler) AddCollaborator(c *gin.Context) {
	var body collaboratorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.plans.AddCollaborator(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c), body.User); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/plans/:id/collaborators/:user
func (h *PlanHandler) RemoveCollaborator(c *gin.Context) {
	if err := h.plans.RemoveCollaborator(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c), c.Param("user")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
