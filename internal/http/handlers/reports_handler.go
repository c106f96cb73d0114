package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dealerhub/internal/services"
)

// Report handlers always answer 200; failed dependencies show up as warnings.

func GetTurnoverReport(c *gin.Context) {
	report := reportsFor(c).Turnover(c.Request.Context(), services.TurnoverQuery{
		Query: pageQuery(c),
		Owner: c.Query("owner"),
	})
	c.JSON(http.StatusOK, report)
}

func GetRegionalSalesReport(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).RegionalSales(c.Request.Context(), pageQuery(c)))
}

func GetAgencyDebtReport(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).AgencyDebts(c.Request.Context(), debtQuery(c)))
}

func GetStaffPerformanceReport(c *gin.Context) {
	report := reportsFor(c).StaffPerformance(c.Request.Context(), services.StaffQuery{
		Query: pageQuery(c),
		Year:  queryInt(c, "year", 0),
		Month: queryInt(c, "month", 0),
	})
	c.JSON(http.StatusOK, report)
}

func GetQuotationConversionReport(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).QuotationConversion(c.Request.Context(), pageQuery(c)))
}

func GetTestDriveReport(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).TestDrives(c.Request.Context(), pageQuery(c)))
}

func GetFeedbackReport(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).Feedbacks(c.Request.Context(), pageQuery(c)))
}

func GetOverview(c *gin.Context) {
	c.JSON(http.StatusOK, reportsFor(c).Overview(c.Request.Context()))
}

func debtQuery(c *gin.Context) services.DebtQuery {
	return services.DebtQuery{
		Query:       pageQuery(c),
		Priority:    strings.TrimSpace(c.Query("priority")),
		OverdueOnly: queryBool(c, "overdue"),
	}
}

type replyRequest struct {
	Reply  string `json:"reply"`
	Status string `json:"status"`
}

// ReplyFeedback writes the reply upstream and returns the refreshed report.
func ReplyFeedback(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_feedback_id", "invalid feedback id", nil)
		return
	}
	var body replyRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	report, err := reportsFor(c).ReplyFeedback(c.Request.Context(), services.ReplyInput{
		ID:     id,
		Reply:  body.Reply,
		Status: body.Status,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
