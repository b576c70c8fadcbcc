package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/middleware"
	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

// limitOffset reads page and page_size query parameters.
func limitOffset(ctx *gin.Context) (int, int) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	return size, (page - 1) * size
}

func getUserID(ctx *gin.Context) (uint, bool) {
	return middleware.UserID(ctx)
}

func currentUser(ctx *gin.Context) *models.User {
	v, _ := ctx.Get(middleware.ContextUserKey)
	u, _ := v.(*models.User)
	return u
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondError writes err as a structured error. Anything that is not an
// AppError is logged and hidden behind a generic failure.
func respondError(ctx *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		utils.ErrorWithKind(ctx, appErr.Status, appErr.Code, string(appErr.Kind), appErr.Message)
		return
	}
	utils.Sugar.Errorf("unhandled error path=%s: %v", ctx.FullPath(), err)
	utils.ErrorWithKind(ctx, http.StatusInternalServerError, 50000, string(services.KindProcessingFailed), "failed to process request")
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("cache:stats:user:%d", userID)
}

// invalidateStats drops cached stats after a write that changes them.
func invalidateStats(userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, statsCacheKey(id))
	}
	utils.CacheDelete(keys...)
}
