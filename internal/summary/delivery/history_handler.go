package delivery

import (
	"net/http"
	"strconv"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles history browsing, search and analytics requests
type HistoryHandler struct {
	historyUsecase usecase.HistoryUsecase
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyUsecase usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{
		historyUsecase: historyUsecase,
	}
}

// ListByUser returns a page of the user's summaries
// GET /api/history/user/:userId?page=1&limit=20&search=budget
func (h *HistoryHandler) ListByUser(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.historyUsecase.ListByUser(c.Request.Context(), c.Param("userId"), c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Search filters the user's summaries
// GET /api/history/user/:userId/search?q=&style=&language=&dateFrom=&dateTo=&page=&limit=
func (h *HistoryHandler) Search(c *gin.Context) {
	page, limit := pageParams(c)
	params := usecase.SearchInput{
		Query:    c.Query("q"),
		Style:    c.Query("style"),
		Language: c.Query("language"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
	}

	resp, err := h.historyUsecase.Search(c.Request.Context(), c.Param("userId"), params, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Stats returns aggregate counters for the user
// GET /api/history/user/:userId/stats
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.historyUsecase.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// Analytics returns daily activity for the user
// GET /api/history/user/:userId/analytics?period=30d
func (h *HistoryHandler) Analytics(c *gin.Context) {
	resp, err := h.historyUsecase.Analytics(c.Request.Context(), c.Param("userId"), c.DefaultQuery("period", "30d"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// GetByID returns one summary
// GET /api/history/summary/:id
func (h *HistoryHandler) GetByID(c *gin.Context) {
	summary, err := h.historyUsecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

// Update applies a partial update
// PUT /api/history/summary/:id
func (h *HistoryHandler) Update(c *gin.Context) {
	var req dto.UpdateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	summary, err := h.historyUsecase.Update(c.Request.Context(), c.Param("id"), usecase.UpdateSummaryInput{
		EditedSummary: req.EditedSummary,
		Prompt:        req.Prompt,
		SummaryStyle:  req.SummaryStyle,
		Language:      req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.NewUpdateSummaryResponse(summary))
}

// Delete removes a summary
// DELETE /api/history/summary/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.historyUsecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Summary deleted successfully"})
}

// pageParams reads page and limit; bad values fall back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
