package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/http/middleware"
	"dealerhub/internal/utils"
)

type targetRequest struct {
	StaffID       int64           `json:"staffId"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TargetUnits   int             `json:"targetUnits"`
	TargetRevenue decimal.Decimal `json:"targetRevenue"`
}

func (r targetRequest) validate() error {
	switch {
	case r.StaffID <= 0:
		return domain.ValidationError{Field: "staffId", Msg: "must be positive"}
	case r.Year < 2000:
		return domain.ValidationError{Field: "year", Msg: "must be 2000 or later"}
	case r.Month < 1 || r.Month > 12:
		return domain.ValidationError{Field: "month", Msg: "must be between 1 and 12"}
	case r.TargetUnits < 0:
		return domain.ValidationError{Field: "targetUnits", Msg: "must not be negative"}
	case r.TargetRevenue.IsNegative():
		return domain.ValidationError{Field: "targetRevenue", Msg: "must not be negative"}
	}
	return nil
}

// GetSalesTargets lists stored targets for ?year=&month= (default: this month).
func GetSalesTargets(c *gin.Context) {
	store := currentDeps().Targets
	if store == nil {
		RespondDomainError(c, domain.InternalError{Msg: "sales target store not configured"})
		return
	}
	now := time.Now()
	if d := currentDeps(); d.Now != nil {
		now = d.Now()
	}
	year := queryInt(c, "year", now.Year())
	month := queryInt(c, "month", int(now.Month()))

	targets, err := store.TargetsForMonth(year, month)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to load sales targets", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "targets": targets})
}

func PutSalesTarget(c *gin.Context) {
	store := currentDeps().Targets
	if store == nil {
		RespondDomainError(c, domain.InternalError{Msg: "sales target store not configured"})
		return
	}
	var body targetRequest
	if !BindJSONOrError(c, &body) {
		return
	}
	if err := body.validate(); err != nil {
		RespondDomainError(c, err)
		return
	}
	target := models.SalesTarget(body)
	if err := store.Upsert(target); err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to save sales target", Err: err})
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "targets", "upsert", "sales target saved")
	c.JSON(http.StatusOK, target)
}
