package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/utils"
)

// RewardController serves the reward catalog, redemption and its review.
type RewardController struct {
	rewards *services.RewardService
}

// NewRewardController creates a RewardController.
func NewRewardController(svc *services.RewardService) *RewardController {
	return &RewardController{rewards: svc}
}

// ListRewards returns the active catalog.
func (r *RewardController) ListRewards(ctx *gin.Context) {
	items, err := r.rewards.Catalog(ctx.Request.Context(), false)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// ListAllRewards returns the catalog including inactive items.
func (r *RewardController) ListAllRewards(ctx *gin.Context) {
	items, err := r.rewards.Catalog(ctx.Request.Context(), true)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// Redeem spends the caller's points on the reward in the path.
func (r *RewardController) Redeem(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	rewardID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	red, err := r.rewards.Redeem(ctx.Request.Context(), userID, rewardID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	invalidateStats(userID)
	utils.Created(ctx, red)
}

// CreateReward adds a catalog item.
func (r *RewardController) CreateReward(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		PointsCost  int    `json:"points_cost" binding:"required"`
		Stock       *int   `json:"stock"`
		Active      *bool  `json:"active"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	reward := models.Reward{
		Name:        utils.Sanitize(req.Name),
		Description: truncate(utils.Sanitize(req.Description), 512),
		PointsCost:  req.PointsCost,
		Stock:       -1,
		Active:      true,
	}
	if req.Stock != nil {
		reward.Stock = max(*req.Stock, -1)
	}
	if req.Active != nil {
		reward.Active = *req.Active
	}
	if err := r.rewards.Create(ctx.Request.Context(), &reward); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, reward)
}

// ListRedemptions lists redemptions by status, pending by default.
func (r *RewardController) ListRedemptions(ctx *gin.Context) {
	status := models.RedemptionStatus(strings.ToLower(ctx.DefaultQuery("status", string(models.RedemptionPending))))
	if status == "all" {
		status = ""
	}
	limit, offset := limitOffset(ctx)
	items, err := r.rewards.Pending(ctx.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// ReviewRedemption moves a redemption to the requested status.
func (r *RewardController) ReviewRedemption(ctx *gin.Context) {
	reviewer, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	red, err := r.rewards.Review(ctx.Request.Context(), id, reviewer, models.RedemptionStatus(strings.ToLower(strings.TrimSpace(req.Status))))
	if err != nil {
		respondError(ctx, err)
		return
	}
	invalidateStats(red.UserID)
	utils.Success(ctx, red)
}
