package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dm/aadash/internal/client"
	"github.com/dm/aadash/internal/store"
)

type handlers struct {
	store store.Store
	log   *slog.Logger
}

// bindFilter parses the query into a filter, answering 400 itself on failure.
func (h *handlers) bindFilter(c *gin.Context) (QueryParams, store.Filter, bool) {
	var params QueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return params, store.Filter{}, false
	}
	f, err := params.Filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return params, store.Filter{}, false
	}
	return params, f, true
}

func (h *handlers) fail(c *gin.Context, op string, err error) {
	h.log.Error("store query failed", "op", op, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query " + op})
}

func (h *handlers) preflight(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("preflight failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client.PreflightResponse{Status: "ok"})
}

func (h *handlers) chart(c *gin.Context) {
	_, f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	// The aggregate chart always spans every cluster.
	f.ClusterID = 0
	points, err := h.store.JobsByDay(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "chart", err)
		return
	}
	c.JSON(http.StatusOK, client.ChartResponse{Data: nonNil(points)})
}

func (h *handlers) clusterChart(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cluster id " + strconv.Quote(c.Param("id"))})
		return
	}
	_, f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	points, err := h.store.ClusterJobsByDay(c.Request.Context(), id, f)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cluster " + strconv.FormatInt(id, 10) + " not found"})
		return
	}
	if err != nil {
		h.fail(c, "cluster chart", err)
		return
	}
	c.JSON(http.StatusOK, client.ChartResponse{Data: nonNil(points)})
}

func (h *handlers) clusters(c *gin.Context) {
	records, err := h.store.Clusters(c.Request.Context())
	if err != nil {
		h.fail(c, "clusters", err)
		return
	}
	c.JSON(http.StatusOK, client.ClustersResponse{Templates: nonNil(records)})
}

func (h *handlers) modules(c *gin.Context) {
	params, f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	mods, err := h.store.TopModules(c.Request.Context(), f, params.Limit)
	if err != nil {
		h.fail(c, "modules", err)
		return
	}
	c.JSON(http.StatusOK, client.ModulesResponse{Modules: nonNil(mods)})
}

func (h *handlers) templates(c *gin.Context) {
	params, f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	tmpls, err := h.store.TopTemplates(c.Request.Context(), f, params.Limit)
	if err != nil {
		h.fail(c, "templates", err)
		return
	}
	c.JSON(http.StatusOK, client.TemplatesResponse{Templates: nonNil(tmpls)})
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
