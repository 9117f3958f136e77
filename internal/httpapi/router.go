package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	ExperienceHandler *ExperienceHandler
	PlanHandler       *PlanHandler
	SyncHandler       *SyncHandler

	Logger *slog.Logger

	// Metrics and Gatherer are optional. /metrics is only served when
	// Gatherer is set.
	Metrics  *HTTPMetrics
	Gatherer prometheus.Gatherer

	// CORSOrigins enables CORS for these origins when non-empty.
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Metrics(cfg.Metrics))
	r.Use(AttachActor())

	r.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	if h := cfg.ExperienceHandler; h != nil {
		api.GET("/experiences", h.List)
		api.POST("/experiences", h.Create)
		api.GET("/experiences/:id", h.Get)
		api.PATCH("/experiences/:id", h.UpdateDetails)
		api.DELETE("/experiences/:id", h.Delete)
		api.GET("/experiences/:id/export", h.Export)
		api.POST("/experiences/:id/items", h.AddItem)
		api.PATCH("/experiences/:id/items/:itemId", h.UpdateItem)
		api.DELETE("/experiences/:id/items/:itemId", h.RemoveItem)
		api.POST("/imports", h.Import)
	}

	if h := cfg.PlanHandler; h != nil {
		api.GET("/plans", h.List)
		api.POST("/plans", h.Create)
		api.GET("/plans/:id", h.Get)
		api.DELETE("/plans/:id", h.Delete)
		api.PUT("/plans/:id/items", h.ReplaceItems)
		api.PATCH("/plans/:id/items/:itemId", h.UpdateItem)
		api.PUT("/plans/:id/planned-date", h.SetPlannedDate)
		api.POST("/plans/:id/collaborators", h.AddCollaborator)
		api.DELETE("/plans/:id/collaborators/:user", h.RemoveCollaborator)
	}

	if h := cfg.SyncHandler; h != nil {
		api.GET("/plans/:id/divergence", h.CheckDivergence)
		api.GET("/plans/:id/changeset", h.PreviewChangeset)
		api.POST("/plans/:id/sync", h.ApplySync)
	}

	return r
}
