package delivery

import (
	"net/http"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

// EmailHandler handles summary delivery requests
type EmailHandler struct {
	summaryUsecase usecase.SummaryUsecase
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(summaryUsecase usecase.SummaryUsecase) *EmailHandler {
	return &EmailHandler{
		summaryUsecase: summaryUsecase,
	}
}

// Send emails a summary to all recipients in one message
// POST /api/email/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.summaryUsecase.SendEmail(c.Request.Context(), sendInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

// SendBulk emails a summary to each recipient separately
// POST /api/email/send-bulk
func (h *EmailHandler) SendBulk(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.summaryUsecase.SendBulkEmail(c.Request.Context(), sendInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Validate checks a list of addresses without sending
// POST /api/email/validate
func (h *EmailHandler) Validate(c *gin.Context) {
	var req dto.ValidateEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	v, err := h.summaryUsecase.ValidateEmails(req.Emails)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, v)
}

// Test verifies the mail transport is reachable
// GET /api/email/test
func (h *EmailHandler) Test(c *gin.Context) {
	res := h.summaryUsecase.TestEmail(c.Request.Context())
	if !res.Success {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email Service Unavailable", "message": res.Error})
		return
	}
	respondOK(c, res)
}

// Status reports the mail configuration
// GET /api/email/status
func (h *EmailHandler) Status(c *gin.Context) {
	respondOK(c, h.summaryUsecase.EmailStatus())
}

// Logs returns the delivery history of a summary
// GET /api/email/logs/:summaryId
func (h *EmailHandler) Logs(c *gin.Context) {
	resp, err := h.summaryUsecase.ListEmailLogs(c.Request.Context(), c.Param("summaryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func sendInput(req dto.SendEmailRequest) usecase.SendEmailInput {
	return usecase.SendEmailInput{
		SummaryID:  req.SummaryID,
		Recipients: req.Recipients,
		Subject:    req.Subject,
		Summary:    req.Summary,
	}
}
