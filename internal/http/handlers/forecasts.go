package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/http/middleware"
)

type forecastRequest struct {
	Requests []models.ForecastRequest `json:"requests"`
}

// SubmitForecast sends the batch in one call and returns the new result set.
func SubmitForecast(c *gin.Context) {
	svc := currentDeps().Forecast
	if svc == nil {
		RespondDomainError(c, domain.InternalError{Msg: "forecast service not configured"})
		return
	}
	var body forecastRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	run, err := svc.Submit(c.Request.Context(), middleware.GetRequestID(c), body.Requests)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func GetLatestForecast(c *gin.Context) {
	svc := currentDeps().Forecast
	if svc == nil {
		RespondDomainError(c, domain.InternalError{Msg: "forecast service not configured"})
		return
	}
	c.JSON(http.StatusOK, svc.Latest())
}

func GetForecastHistory(c *gin.Context) {
	svc := currentDeps().Forecast
	if svc == nil {
		RespondDomainError(c, domain.InternalError{Msg: "forecast service not configured"})
		return
	}
	runs, err := svc.History(queryInt(c, "limit", 20))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
