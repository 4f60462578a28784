package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/guttosm/dealpulse/internal/domain/dto"
	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/logger"
	"github.com/guttosm/dealpulse/internal/middleware"
	"github.com/guttosm/dealpulse/internal/service"
)

const wsWriteWait = 10 * time.Second

// Handler provides HTTP handlers for analysis runs and the run journal.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Start analysis runs and relay their events over SSE or WebSocket
//   - Translate journal entries into response DTOs
type Handler struct {
	analysis service.AnalysisService
	runs     service.RunHistoryService
	upgrader websocket.Upgrader
}

// NewHandler constructs a Handler ready to be registered with the router.
func NewHandler(analysis service.AnalysisService, runs service.RunHistoryService) *Handler {
	return &Handler{
		analysis: analysis,
		runs:     runs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type analysisQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=30"`
}

type runsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// StartAnalysis godoc
// @Summary      Run an institutional accumulation analysis
// @Description  Streams progress, result and error events as Server-Sent Events. Each frame is "data: <JSON>\n\n".
// @Tags         analysis
// @Produce      text/event-stream
// @Param        days  query     int  false  "Business days to analyze (1-30)"  example(5)
// @Success      200   {object}  dto.ResultPayload  "Event stream; see ProgressPayload and ErrorPayload for the other frames"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Router       /api/v1/analysis [post]
func (h *Handler) StartAnalysis(c *gin.Context) {
	var q analysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid days parameter", err)
		return
	}

	events := h.analysis.Start(c.Request.Context(), service.AnalysisOptions{Days: q.Days})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	log := logger.With("sse")
	for ev := range events {
		if err := writeSSE(c.Writer, ev); err != nil {
			// the request context is cancelled once we return, which stops the run
			log.Warn().Err(err).Msg("client stream write failed")
			return
		}
		c.Writer.Flush()
	}
}

// writeSSE writes one "data: <JSON>\n\n" frame.
func writeSSE(w io.Writer, ev models.ProgressEvent) error {
	b, err := dto.MarshalEvent(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}

// StreamAnalysisWS godoc
// @Summary      Run an analysis over WebSocket
// @Description  Upgrades the connection and sends one JSON text message per event, then closes normally.
// @Tags         analysis
// @Param        days  query  int  false  "Business days to analyze (1-30)"
// @Success      101
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Router       /api/v1/analysis/ws [get]
func (h *Handler) StreamAnalysisWS(c *gin.Context) {
	var q analysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid days parameter", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		return
	}
	defer conn.Close()

	log := logger.With("ws")
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// a read error means the peer went away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range h.analysis.Start(ctx, service.AnalysisOptions{Days: q.Days}) {
		b, err := dto.MarshalEvent(ev)
		if err != nil {
			log.Error().Err(err).Msg("encode event")
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warn().Err(err).Msg("client socket write failed")
			return
		}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

// ListRuns godoc
// @Summary      List recent analysis runs
// @Description  Returns journal entries, newest first. Empty when the journal is disabled.
// @Tags         runs
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (1-100)"  example(20)
// @Success      200    {array}   dto.RunResponse    "Success"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	var q runsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid limit parameter", err)
		return
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), q.Limit)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to list runs", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRunResponses(runs))
}
