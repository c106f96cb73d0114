package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "dealerhub/internal/config"
	router "dealerhub/internal/http"
	"dealerhub/internal/http/handlers"
	"dealerhub/internal/repositories"
	"dealerhub/internal/services"
	"dealerhub/internal/upstream"
	"dealerhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	env := intconfig.LoadEnv()
	utils.InitLogger(env.LogLevel, env.Debug())
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	// Dashboard clients read money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	deps := handlers.Dependencies{
		AssumedAchievementRate: env.AssumedAchievementRate,
		DaysToSellFallback:     env.DaysToSellFallback,
	}

	svcs := upstream.NewServices(upstream.Config{
		VehicleURL:   env.VehicleAPIURL,
		AgencyURL:    env.AgencyAPIURL,
		OrderURL:     env.OrderAPIURL,
		AnalyticsURL: env.AnalyticsAPIURL,
		ForecastURL:  env.ForecastAPIURL,
		Tokens:       upstream.TokensFor(env.UpstreamToken, env.UpstreamJWTSecret),
		Timeout:      env.UpstreamTimeout,
	})
	deps.Source = svcs
	deps.Replies = svcs
	deps.Uploader = svcs

	var runs services.RunStore
	db, err := intconfig.ConnectDB(env.MySQLDSN)
	switch {
	case errors.Is(err, intconfig.ErrDBNotConfigured):
		utils.Logger.Info().Msg("MYSQL_DSN empty, running without sales targets and forecast history")
	case err != nil:
		utils.Logger.Fatal().Err(err).Msg("failed to connect to MySQL")
	default:
		targets := repositories.SalesTargetRepository{DB: db}
		forecastRuns := repositories.ForecastRunRepository{DB: db}
		if err := targets.EnsureTable(); err != nil {
			utils.Logger.Fatal().Err(err).Msg("failed to prepare sales_targets")
		}
		if err := forecastRuns.EnsureTable(); err != nil {
			utils.Logger.Fatal().Err(err).Msg("failed to prepare forecast_runs")
		}
		deps.Targets = targets
		runs = forecastRuns
	}
	defer intconfig.CloseDB()

	deps.Forecast = services.NewForecastService(svcs, svcs, runs)
	handlers.SetDependencies(deps)

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Logger.Info().Str("addr", env.AppAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.Logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("server shutdown failed")
		return
	}

	utils.Logger.Info().Msg("server stopped")
}
