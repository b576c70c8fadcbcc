package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/middleware"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

// StatsController serves point and streak statistics.
type StatsController struct {
	stats    *services.StatsService
	store    store.Store
	cacheTTL time.Duration
}

// NewStatsController creates a StatsController. A non-positive ttl disables caching.
func NewStatsController(svc *services.StatsService, s store.Store, ttl time.Duration) *StatsController {
	return &StatsController{stats: svc, store: s, cacheTTL: ttl}
}

// UserStats returns the stats of the user in the path.
func (s *StatsController) UserStats(ctx *gin.Context) {
	requesterID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	userID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	req := services.Requester{UserID: requesterID, Role: middleware.Role(ctx)}
	if !services.CanViewStats(userID, req) {
		respondError(ctx, services.ErrForbidden)
		return
	}

	key := statsCacheKey(userID)
	if s.cacheTTL > 0 {
		var cached services.Stats
		if utils.CacheGetJSON(key, &cached) {
			ctx.Header("X-Cache", "HIT")
			utils.Success(ctx, cached)
			return
		}
	}

	st, err := s.stats.UserStats(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if s.cacheTTL > 0 {
		utils.CacheSetJSON(key, st, s.cacheTTL)
	}
	utils.Success(ctx, st)
}

// MyStats is UserStats for the caller.
func (s *StatsController) MyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	ctx.Params = append(ctx.Params, gin.Param{Key: "id", Value: uintToString(userID)})
	s.UserStats(ctx)
}

// Badges lists the badge catalog.
func (s *StatsController) Badges(ctx *gin.Context) {
	items, err := s.store.ListBadges(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list badges: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list badges")
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}
