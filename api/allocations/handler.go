package allocations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/granthours/core/allocation"
	"github.com/kilianp07/granthours/core/logger"
	"github.com/kilianp07/granthours/core/model"
	"github.com/kilianp07/granthours/core/planner"
	"github.com/kilianp07/granthours/core/runlog"
	"github.com/kilianp07/granthours/pkg/export"
	"github.com/kilianp07/granthours/pkg/grantfile"
)

// Planner is the part of planner.Planner used by the handlers.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (*planner.Response, error)
	Runs(ctx context.Context, q runlog.LogQuery) ([]runlog.RunRecord, error)
}

// Handler serves the allocation API.
type Handler struct {
	planner   Planner
	catalog   []string
	maxGrants int
	log       logger.Logger
}

// NewHandler returns a handler backed by p. maxGrants <= 0 disables the
// request size check.
func NewHandler(p Planner, maxGrants int, log logger.Logger) *Handler {
	return &Handler{
		planner:   p,
		catalog:   model.DefaultCatalog,
		maxGrants: maxGrants,
		log:       logger.OrNop(log),
	}
}

// RegisterRoutes mounts the API under router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/allocations", h.Allocate)
	router.POST("/allocations/export", h.Export)
	router.GET("/allocations", h.ListRuns)
	router.GET("/grants/catalog", h.Catalog)
}

// NewRouter builds a gin engine serving the API under /api. A non-empty
// token requires "Authorization: Bearer <token>" on every request.
func NewRouter(h *Handler, token string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	api := r.Group("/api")
	if token != "" {
		api.Use(BearerAuth(token))
	}
	h.RegisterRoutes(api)
	return r
}

// BearerAuth rejects requests without the expected bearer token.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type grantBody struct {
	Name     string          `json:"name"`
	MaxHours json.RawMessage `json:"max_hours"`
}

type allocateBody struct {
	Grants    []grantBody `json:"grants"`
	Seed      *uint64     `json:"seed"`
	ScaleTo80 bool        `json:"scale_to_80"`
}

// decodeRequest binds the body and converts hours. Hours may be JSON
// numbers or numeric strings.
func (h *Handler) decodeRequest(c *gin.Context) (planner.Request, bool) {
	var body allocateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid body: %v", err)})
		return planner.Request{}, false
	}
	if h.maxGrants > 0 && len(body.Grants) > h.maxGrants {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d grants per request", h.maxGrants)})
		return planner.Request{}, false
	}
	req := planner.Request{Seed: body.Seed, ScaleTo80: body.ScaleTo80}
	for i, g := range body.Grants {
		var v any
		dec := json.NewDecoder(bytes.NewReader(g.MaxHours))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			v = string(g.MaxHours)
		}
		hours, err := grantfile.ParseHours(v)
		if err != nil {
			h.badRequest(c, &allocation.ValidationError{Index: i, Grant: g.Name, Err: model.ErrNonNumericHours})
			return planner.Request{}, false
		}
		req.Grants = append(req.Grants, model.GrantRequest{Name: g.Name, Hours: hours})
	}
	return req, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": planner.RejectionReason(err)})
}

func (h *Handler) plan(c *gin.Context) (*planner.Response, bool) {
	req, ok := h.decodeRequest(c)
	if !ok {
		return nil, false
	}
	resp, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		var verr *allocation.ValidationError
		if errors.As(err, &verr) {
			h.badRequest(c, err)
			return nil, false
		}
		h.log.Errorf("plan: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "allocation failed"})
		return nil, false
	}
	return resp, true
}

// Allocate runs an allocation and returns the report.
// POST /api/allocations
func (h *Handler) Allocate(c *gin.Context) {
	resp, ok := h.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":   resp.RunID,
		"seed":     resp.Seed,
		"balanced": resp.Result.Balanced(),
		"report":   resp.Report,
	})
}

// Export runs an allocation and returns it as a file.
// POST /api/allocations/export?format=csv|json|xlsx|html&table=details|summary
func (h *Handler) Export(c *gin.Context) {
	ex, err := export.New(c.DefaultQuery("format", "csv"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := export.ParseTable(c.Query("table"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, ok := h.plan(c)
	if !ok {
		return
	}
	c.Header("X-Run-ID", resp.RunID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="allocation-%s%s"`, resp.RunID, ex.Extension()))
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", ex.ContentType())
	if err := ex.Write(c.Writer, resp.Report, table); err != nil {
		h.log.Errorf("export %s: %v", resp.RunID, err)
	}
}

// ListRuns queries the run log.
// GET /api/allocations?start=RFC3339&end=RFC3339&mode=exact|flexible&grant=name
func (h *Handler) ListRuns(c *gin.Context) {
	q := runlog.LogQuery{Mode: c.Query("mode"), Grant: c.Query("grant")}
	for key, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
		s := c.Query(key)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", key, err)})
			return
		}
		*dst = t
	}
	records, err := h.planner.Runs(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, planner.ErrRunLogDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("query runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if records == nil {
		records = []runlog.RunRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Catalog lists the default grants, minus any passed as ?selected=.
// GET /api/grants/catalog
func (h *Handler) Catalog(c *gin.Context) {
	var selected []model.GrantRequest
	for _, name := range c.QueryArray("selected") {
		selected = append(selected, model.GrantRequest{Name: name})
	}
	available := model.Available(h.catalog, selected)
	if available == nil {
		available = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"grants": available})
}
