package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/chart"
	"github.com/runnerr0/milestones/internal/milestone"
)

type Handler struct {
	session *app.Session
	logger  *zap.Logger
	svgOpts chart.SVGOptions
}

func NewHandler(session *app.Session, logger *zap.Logger, svgOpts chart.SVGOptions) *Handler {
	return &Handler{session: session, logger: logger, svgOpts: svgOpts}
}

// mutationResponse carries the milestone and, when the save failed, the
// persistence error so the client can warn the user.
func mutationResponse(res app.Result) gin.H {
	body := gin.H{"milestone": res.Milestone}
	if res.PersistErr != nil {
		body["persist_error"] = res.PersistErr.Error()
	}
	return body
}

// writeError maps domain errors to status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *milestone.ValidationError
	var nf *milestone.NotFoundError
	var derr *milestone.InvalidDateError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "fields": verr.Fields, "message": verr.Reason})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "id": nf.ID})
	case errors.As(err, &derr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_date", "id": derr.MilestoneID, "field": derr.Field, "value": derr.Value})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}

func (h *Handler) ListMilestones(c *gin.Context) {
	ms := h.session.List()
	c.JSON(http.StatusOK, gin.H{"milestones": ms, "count": len(ms)})
}

func (h *Handler) GetMilestone(c *gin.Context) {
	m, err := h.session.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestone": m})
}

func (h *Handler) CreateMilestone(c *gin.Context) {
	var f milestone.Fields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	res, err := h.session.Add(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("milestone created", zap.String("id", res.Milestone.ID), zap.String("timeline", res.Milestone.Timeline))
	c.JSON(http.StatusCreated, mutationResponse(res))
}

func (h *Handler) UpdateMilestone(c *gin.Context) {
	var f milestone.Fields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	res, err := h.session.Update(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse(res))
}

func (h *Handler) DeleteMilestone(c *gin.Context) {
	res, err := h.session.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res.Removed && res.PersistErr != nil {
		c.JSON(http.StatusOK, gin.H{"persist_error": res.PersistErr.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTimelines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"timelines": h.session.Timelines()})
}

func (h *Handler) ToggleTimeline(c *gin.Context) {
	name := c.Param("name")
	hidden := h.session.Toggle(name)
	c.JSON(http.StatusOK, gin.H{"timeline": name, "hidden": hidden})
}

func (h *Handler) Chart(c *gin.Context) {
	snap, err := h.session.Snapshot()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) ChartSVG(c *gin.Context) {
	snap, err := h.session.Snapshot()
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, snap.Data, h.svgOpts); err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}
