package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/earlybird/config"
	"github.com/cppla/earlybird/controllers"
	"github.com/cppla/earlybird/middleware"
	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

// Dependencies carries everything the router wires into controllers.
type Dependencies struct {
	Config    config.AppConfig
	Store     store.Store
	CheckIns  *services.CheckInService
	Stats     *services.StatsService
	Rewards   *services.RewardService
	QRCodes   *services.QRCodeService
	Bonuses   *services.BonusService
	AccessLog *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.App.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	accessLog := deps.AccessLog
	if accessLog == nil {
		accessLog = zap.NewNop()
	}
	r.Use(ginzap.Ginzap(accessLog, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 0 || (len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(deps.Store)
	checkInController := controllers.NewCheckInController(deps.CheckIns)
	statsController := controllers.NewStatsController(deps.Stats, deps.Store, time.Duration(cfg.App.StatsCacheSeconds)*time.Second)
	rewardController := controllers.NewRewardController(deps.Rewards)
	adminController := controllers.NewAdminController(deps.Store, deps.QRCodes, deps.Bonuses)

	perMinute := cfg.App.RateLimitPerMinute
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(perMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	api.GET("/badges", statsController.Badges)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.UserRateLimitMiddleware(perMinute), middleware.ApprovedUser(deps.Store))
	protected.POST("/checkins", checkInController.CheckIn)
	protected.GET("/checkins/today", checkInController.Today)
	protected.GET("/users/me/stats", statsController.MyStats)
	protected.GET("/users/:id/stats", statsController.UserStats)
	protected.GET("/rewards", rewardController.ListRewards)
	protected.POST("/rewards/:id/redeem", rewardController.Redeem)

	admin := protected.Group("/admin")
	can := middleware.RequireCapability
	admin.POST("/companies", can(models.CapManageCompanies), adminController.CreateCompany)
	admin.GET("/companies", can(models.CapManageCompanies), adminController.ListCompanies)
	admin.POST("/companies/:id/departments", can(models.CapManageCompanies), adminController.CreateDepartment)
	admin.GET("/companies/:id/departments", can(models.CapManageCompanies), adminController.ListDepartments)
	admin.GET("/users", can(models.CapApproveUsers), adminController.ListUsers)
	admin.PUT("/users/:id/status", can(models.CapApproveUsers), adminController.UpdateUserStatus)
	admin.POST("/users/:id/bonus", can(models.CapGrantBonus), adminController.GrantBonus)
	admin.POST("/qrcodes", can(models.CapManageQRCodes), adminController.GenerateQRCode)
	admin.GET("/qrcodes", can(models.CapManageQRCodes), adminController.ListQRCodes)
	admin.POST("/rewards", can(models.CapManageRewards), rewardController.CreateReward)
	admin.GET("/rewards", can(models.CapManageRewards), rewardController.ListAllRewards)
	admin.GET("/redemptions", can(models.CapReviewRedemptions), rewardController.ListRedemptions)
	admin.PUT("/redemptions/:id", can(models.CapReviewRedemptions), rewardController.ReviewRedemption)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
