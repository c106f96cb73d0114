package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"dealerhub/internal/domain/models"
	"dealerhub/internal/http/middleware"
	"dealerhub/internal/services"
)

// TargetStore reads and writes staff sales targets.
type TargetStore interface {
	services.TargetSource
	Upsert(t models.SalesTarget) error
}

// Dependencies wires the handlers to the remote services and stores.
type Dependencies struct {
	Source   services.Source
	Replies  services.FeedbackWriter
	Uploader services.ImageUploader
	Targets  TargetStore
	Forecast *services.ForecastService

	AssumedAchievementRate float64
	DaysToSellFallback     int
	Now                    func() time.Time
}

var (
	depsMu sync.RWMutex
	deps   Dependencies
)

func SetDependencies(d Dependencies) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func currentDeps() Dependencies {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func reportsFor(c *gin.Context) services.ReportsService {
	d := currentDeps()
	svc := services.ReportsService{
		Loader:                 services.Loader{Source: d.Source, RequestID: middleware.GetRequestID(c)},
		Replies:                d.Replies,
		Now:                    d.Now,
		AssumedAchievementRate: d.AssumedAchievementRate,
		DaysToSellFallback:     d.DaysToSellFallback,
	}
	if d.Targets != nil {
		svc.Targets = d.Targets
	}
	return svc
}

func catalogFor(c *gin.Context) services.CatalogService {
	d := currentDeps()
	return services.CatalogService{
		Loader:   services.Loader{Source: d.Source, RequestID: middleware.GetRequestID(c)},
		Uploader: d.Uploader,
		Now:      d.Now,
	}
}
