package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/utils"
)

// CheckInController exposes the daily QR check-in.
type CheckInController struct {
	checkIns *services.CheckInService
}

// NewCheckInController creates a CheckInController.
func NewCheckInController(svc *services.CheckInService) *CheckInController {
	return &CheckInController{checkIns: svc}
}

// CheckIn records the caller's check-in for today.
func (c *CheckInController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		QRCode   string `json:"qr_code"`
		Location string `json:"location"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ErrorWithKind(ctx, http.StatusBadRequest, 40070, string(services.KindInvalidRequest), "invalid request payload")
		return
	}

	res, err := c.checkIns.Process(ctx.Request.Context(), services.CheckInRequest{
		UserID:   userID,
		QRCode:   req.QRCode,
		Location: truncate(utils.Sanitize(req.Location), 255),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	invalidateStats(userID)
	utils.Created(ctx, res)
}

// Today returns the caller's check-in for the current day, if any.
func (c *CheckInController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	checkIn, err := c.checkIns.Today(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"checked_in": checkIn != nil,
		"check_in":   checkIn,
	})
}

func truncate(s string, n int) string {
	if rs := []rune(s); len(rs) > n {
		return string(rs[:n])
	}
	return s
}
