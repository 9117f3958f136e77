package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
	"github.com/gokepelemo/biensperience/internal/service"
	"github.com/shopspring/decimal"
)

type ExperienceHandler struct {
	experiences service.ExperienceService
	imports     service.ImportService
}

func NewExperienceHandler(experiences service.ExperienceService, imports service.ImportService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences, imports: imports}
}

type createExperienceBody struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
}

type updateExperienceBody struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
}

type addItemBody struct {
	Text         string          `json:"text"`
	URL          string          `json:"url"`
	CostEstimate decimal.Decimal `json:"cost_estimate"`
	PlanningDays int             `json:"planning_days"`
	Photo        domain.ID       `json:"photo"`
	Parent       domain.ID       `json:"parent"`
}

// updateItemBody fields left out of the payload are not changed.
type updateItemBody struct {
	Text         *string          `json:"text"`
	URL          *string          `json:"url"`
	CostEstimate *decimal.Decimal `json:"cost_estimate"`
	PlanningDays *int             `json:"planning_days"`
	Photo        *domain.ID       `json:"photo"`
	Parent       *domain.ID       `json:"parent"`
}

// GET /api/experiences
func (h *ExperienceHandler) List(c *gin.Context) {
	exps, err := h.experiences.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"experiences": exps})
}

// POST /api/experiences
func (h *ExperienceHandler) Create(c *gin.Context) {
	var body createExperienceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	exp, err := h.experiences.Create(c.Request.Context(), app.CreateExperienceRequest{
		Name:        body.Name,
		Destination: body.Destination,
		Owner:       actor(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

// GET /api/experiences/:id
func (h *ExperienceHandler) Get(c *gin.Context) {
	exp, err := h.experiences.GetByID(c.Request.Context(), domain.ParseID(c.Param("id")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, exp)
}

// PATCH /api/experiences/:id
func (h *ExperienceHandler) UpdateDetails(c *gin.Context) {
	var body updateExperienceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	exp, err := h.experiences.UpdateDetails(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c), body.Name, body.Destination)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, exp)
}

// DELETE /api/experiences/:id
func (h *ExperienceHandler) Delete(c *gin.Context) {
	if err := h.experiences.Delete(c.Request.Context(), domain.ParseID(c.Param("id")), actor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/experiences/:id/items
func (h *ExperienceHandler) AddItem(c *gin.Context) {
	var body addItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := h.experiences.AddItem(c.Request.Context(), app.AddTemplateItemRequest{
		ExperienceID: domain.ParseID(c.Param("id")),
		Actor:        actor(c),
		Text:         body.Text,
		URL:          body.URL,
		CostEstimate: body.CostEstimate,
		PlanningDays: body.PlanningDays,
		Photo:        body.Photo,
		Parent:       body.Parent,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PATCH /api/experiences/:id/items/:itemId
func (h *ExperienceHandler) UpdateItem(c *gin.Context) {
	var body updateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := h.experiences.UpdateItem(c.Request.Context(), app.UpdateTemplateItemRequest{
		ExperienceID: domain.ParseID(c.Param("id")),
		ItemID:       domain.ParseID(c.Param("itemId")),
		Actor:        actor(c),
		Text:         body.Text,
		URL:          body.URL,
		CostEstimate: body.CostEstimate,
		PlanningDays: body.PlanningDays,
		Photo:        body.Photo,
		Parent:       body.Parent,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, item)
}

// DELETE /api/experiences/:id/items/:itemId
func (h *ExperienceHandler) RemoveItem(c *gin.Context) {
	removed, err := h.experiences.RemoveItem(c.Request.Context(),
		domain.ParseID(c.Param("id")), domain.ParseID(c.Param("itemId")), actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": removed})
}

// GET /api/experiences/:id/export?format=yaml
func (h *ExperienceHandler) Export(c *gin.Context) {
	format := importer.FormatJSON
	contentType := "application/json"
	if strings.EqualFold(c.Query("format"), "yaml") {
		format, contentType = importer.FormatYAML, "application/yaml"
	}
	data, err := h.imports.ExportExperience(c.Request.Context(), domain.ParseID(c.Param("id")), format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// POST /api/imports accepts a JSON or YAML import file as the body.
func (h *ExperienceHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	format := importer.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = importer.FormatYAML
	}
	schema, err := importer.ParseImportSchema(data, format)
	if err != nil {
		respondBadRequest(c, fmt.Errorf("parsing import: %w", err))
		return
	}
	// The acting user owns what they import over HTTP.
	schema.Experience.Owner = ""
	result, err := h.imports.ImportExperienceFromSchema(c.Request.Context(), schema, actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"experience": result.Experience, "item_count": result.ItemCount})
}
