package delivery

import (
	"net/http"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

// SummaryHandler handles summary generation and editing requests
type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{
		summaryUsecase: summaryUsecase,
	}
}

// Create generates and stores a summary
// POST /api/summarize
func (h *SummaryHandler) Create(c *gin.Context) {
	var req dto.CreateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	summary, err := h.summaryUsecase.Create(c.Request.Context(), usecase.CreateSummaryInput{
		Transcript: req.Transcript,
		Prompt:     req.Prompt,
		Style:      req.Style,
		Language:   req.Language,
		Provider:   req.Provider,
		UserID:     req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, dto.NewCreateSummaryResponse(summary))
}

// Edit replaces the edited text of a summary
// PUT /api/summarize/:id
func (h *SummaryHandler) Edit(c *gin.Context) {
	var req dto.EditSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	summary, err := h.summaryUsecase.Edit(c.Request.Context(), c.Param("id"), req.EditedSummary)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, dto.NewEditSummaryResponse(summary))
}

// Get returns a summary with its transcript and email history
// GET /api/summarize/:id
func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaryUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

// Delete removes a summary
// DELETE /api/summarize/:id
func (h *SummaryHandler) Delete(c *gin.Context) {
	if err := h.summaryUsecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Summary deleted successfully"})
}

// Providers lists configured AI providers
// GET /api/summarize/providers/list
func (h *SummaryHandler) Providers(c *gin.Context) {
	respondOK(c, h.summaryUsecase.Providers())
}

// Styles lists the preset summary styles
// GET /api/summarize/styles/list
func (h *SummaryHandler) Styles(c *gin.Context) {
	respondOK(c, h.summaryUsecase.Styles())
}
