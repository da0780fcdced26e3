package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"isave/internal/autosave"
)

// AutosaveRunner executes one pass of scheduled savings deposits.
type AutosaveRunner interface {
	Run(ctx context.Context, now time.Time) (*autosave.RunResult, error)
}

// PipelineHandler serves endpoints called by the external scheduler.
type PipelineHandler struct {
	runner AutosaveRunner
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(runner AutosaveRunner) *PipelineHandler {
	return &PipelineHandler{runner: runner}
}

// RunAutosave triggers an auto-save run
// @Summary     Run auto-save
// @Description Take the scheduled deposit of every due automatic savings plan
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} autosave.RunResult
// @Failure     401 {object} ErrorResponse
// @Failure     500 {object} ErrorResponse
// @Failure     503 {object} ErrorResponse
// @Router      /pipeline/autosave/run [post]
func (h *PipelineHandler) RunAutosave(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context(), time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
