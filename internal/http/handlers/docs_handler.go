package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerhub/internal/services"
)

// GetAgencyDebtsPDF downloads the debt report with the same filters as the page.
func GetAgencyDebtsPDF(c *gin.Context) {
	svc := services.DocsService{Reports: reportsFor(c)}
	pdfBytes, filename, err := svc.GenerateAgencyDebts(c.Request.Context(), debtQuery(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "pdf_failed", "failed to render pdf", err.Error())
		return
	}
	sendPDF(c, filename, pdfBytes)
}

func GetRegionalSalesPDF(c *gin.Context) {
	svc := services.DocsService{Reports: reportsFor(c)}
	pdfBytes, filename, err := svc.GenerateRegionalSales(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "pdf_failed", "failed to render pdf", err.Error())
		return
	}
	sendPDF(c, filename, pdfBytes)
}

func sendPDF(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
