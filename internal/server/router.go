package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dm/aadash/internal/client"
	"github.com/dm/aadash/internal/store"
)

// NewRouter wires the analytics API onto a gin engine. A nil hub disables the
// events endpoint; a nil logger discards request logs.
func NewRouter(st store.Store, hub *Hub, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	h := &handlers{store: st, log: logger}

	api := r.Group(client.APIPrefix)
	{
		api.GET("/preflight/", h.preflight)
		api.GET("/chart30/", h.chart)
		api.GET("/clusters/", h.clusters)
		api.GET("/clusters/:id/chart30/", h.clusterChart)
		api.GET("/modules/", h.modules)
		api.GET("/templates/", h.templates)
		if hub != nil {
			api.GET("/events/", hub.ServeWS)
		}
	}

	return r
}
