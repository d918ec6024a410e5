package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"

	"bookd/internal/stream"
)

type StreamHandler struct {
	Hub *stream.Hub
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/stream", h.stream)
}

// @Summary Subscribe to market events over websocket
// @Tags stream
// @Router /api/v1/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		Error(c, http.StatusBadRequest, "websocket upgrade failed", nil)
		return
	}
	h.Hub.Serve(c.Request.Context(), conn)
}
