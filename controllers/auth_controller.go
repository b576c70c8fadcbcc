package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/middleware"
	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	store store.Store
}

// NewAuthController creates an AuthController.
func NewAuthController(s store.Store) *AuthController {
	return &AuthController{store: s}
}

// Register creates a pending account inside an existing company.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username     string `json:"username" binding:"required"`
		Password     string `json:"password" binding:"required"`
		FullName     string `json:"full_name"`
		Email        string `json:"email"`
		CompanyID    uint   `json:"company_id" binding:"required"`
		DepartmentID *uint  `json:"department_id"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if l := len([]rune(req.Username)); l < 3 || l > 32 || !validUsername(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 3-32 letters, digits, '-', '_' or '.'")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		utils.Error(ctx, http.StatusBadRequest, 40002, "password must be 8-72 characters")
		return
	}

	reqCtx := ctx.Request.Context()
	if _, err := a.store.Company(reqCtx, req.CompanyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusBadRequest, 40005, "unknown company")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load company")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		FullName:     utils.Sanitize(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		CompanyID:    req.CompanyID,
		DepartmentID: req.DepartmentID,
		Role:         models.RoleEmployee,
		Status:       models.UserPending,
	}
	if err := a.store.CreateUser(reqCtx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		utils.Sugar.Errorf("create user %s: %v", req.Username, err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	utils.Created(ctx, gin.H{"user": user})
}

func validUsername(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.store.UserByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if user.Status == models.UserRejected {
		utils.Error(ctx, http.StatusForbidden, 40312, "account has been rejected")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role), utils.TokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, ok := middleware.BearerToken(ctx)
	if !ok {
		return
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(utils.TokenTTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	user, err := a.store.User(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, gin.H{"user": user, "company": user.Company})
}
