package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "dealerhub/internal/config"
	h "dealerhub/internal/http/handlers"
	"dealerhub/internal/http/middleware"
	"dealerhub/internal/utils"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		api.GET("/overview", h.GetOverview)

		// Reports
		reports := api.Group("/reports")
		reports.GET("/turnover", h.GetTurnoverReport)
		reports.GET("/regional-sales", h.GetRegionalSalesReport)
		reports.GET("/regional-sales/pdf", h.GetRegionalSalesPDF)
		reports.GET("/agency-debts", h.GetAgencyDebtReport)
		reports.GET("/agency-debts/pdf", h.GetAgencyDebtsPDF)
		reports.GET("/staff-performance", h.GetStaffPerformanceReport)
		reports.GET("/quotations", h.GetQuotationConversionReport)
		reports.GET("/test-drives", h.GetTestDriveReport)
		reports.GET("/feedbacks", h.GetFeedbackReport)

		// Writes back to the remote services
		api.PUT("/feedbacks/:id/reply", h.ReplyFeedback)
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.POST("/:id/image", h.UploadVehicleImage)

		// Sales targets (MySQL)
		api.GET("/sales-targets", h.GetSalesTargets)
		api.PUT("/sales-targets", h.PutSalesTarget)

		// Demand forecast
		forecasts := api.Group("/forecasts")
		forecasts.POST("", h.SubmitForecast)
		forecasts.GET("", h.GetForecastHistory)
		forecasts.GET("/latest", h.GetLatestForecast)
	}

	h.SetRouter(r)
	return r
}
