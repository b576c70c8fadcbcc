package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/services"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

// AdminController manages companies, accounts, QR codes and bonus grants.
type AdminController struct {
	store   store.Store
	qrCodes *services.QRCodeService
	bonuses *services.BonusService
}

// NewAdminController creates an AdminController.
func NewAdminController(s store.Store, qr *services.QRCodeService, bonus *services.BonusService) *AdminController {
	return &AdminController{store: s, qrCodes: qr, bonuses: bonus}
}

// CreateCompany registers a company and its timezone.
func (a *AdminController) CreateCompany(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Timezone string `json:"timezone"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	req.Timezone = strings.TrimSpace(req.Timezone)
	if req.Timezone != "" {
		if _, err := services.ParseLocation(req.Timezone); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40020, "invalid timezone")
			return
		}
	}

	company := models.Company{Name: utils.Sanitize(req.Name), Timezone: req.Timezone}
	if company.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "name is required")
		return
	}
	if err := a.store.CreateCompany(ctx.Request.Context(), &company); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40920, "company already exists")
			return
		}
		utils.Sugar.Errorf("create company: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create company")
		return
	}
	utils.Created(ctx, company)
}

// ListCompanies returns every company.
func (a *AdminController) ListCompanies(ctx *gin.Context) {
	items, err := a.store.ListCompanies(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list companies: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list companies")
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// CreateDepartment adds a department to the company in the path.
func (a *AdminController) CreateDepartment(ctx *gin.Context) {
	companyID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	reqCtx := ctx.Request.Context()
	if _, err := a.store.Company(reqCtx, companyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(ctx, services.ErrCompanyNotFound)
			return
		}
		respondError(ctx, err)
		return
	}

	dept := models.Department{CompanyID: companyID, Name: utils.Sanitize(req.Name)}
	if err := a.store.CreateDepartment(reqCtx, &dept); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40921, "department already exists")
			return
		}
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, dept)
}

// ListDepartments lists the departments of the company in the path.
func (a *AdminController) ListDepartments(ctx *gin.Context) {
	companyID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	items, err := a.store.ListDepartments(ctx.Request.Context(), companyID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// ListUsers lists accounts filtered by company_id and status.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	var companyID uint
	if raw := ctx.Query("company_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40004, "invalid company_id")
			return
		}
		companyID = uint(id)
	}
	status := models.UserStatus(strings.ToLower(ctx.Query("status")))
	if status != "" && !status.Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid status")
		return
	}

	limit, offset := limitOffset(ctx)
	items, err := a.store.ListUsers(ctx.Request.Context(), companyID, status, limit, offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// UpdateUserStatus approves or rejects an account.
func (a *AdminController) UpdateUserStatus(ctx *gin.Context) {
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
	status := models.UserStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid status")
		return
	}

	if err := a.store.UpdateUserStatus(ctx.Request.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(ctx, services.ErrUserNotFound)
			return
		}
		respondError(ctx, err)
		return
	}
	utils.Sugar.Infof("user %d status set to %s", id, status)
	utils.Success(ctx, gin.H{"id": id, "status": status})
}

// GenerateQRCode issues a check-in code. Callers that cannot manage companies
// may only issue codes for their own company.
func (a *AdminController) GenerateQRCode(ctx *gin.Context) {
	creator, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	var req struct {
		CompanyID  uint      `json:"company_id"`
		ValidFrom  time.Time `json:"valid_from"`
		ValidUntil time.Time `json:"valid_until"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	companyID, ok := a.scopedCompany(ctx, req.CompanyID)
	if !ok {
		return
	}
	q, err := a.qrCodes.Generate(ctx.Request.Context(), companyID, creator, req.ValidFrom, req.ValidUntil)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, q)
}

// ListQRCodes lists codes of a company, latest first.
func (a *AdminController) ListQRCodes(ctx *gin.Context) {
	var requested uint
	if raw := ctx.Query("company_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40004, "invalid company_id")
			return
		}
		requested = uint(id)
	}
	companyID, ok := a.scopedCompany(ctx, requested)
	if !ok {
		return
	}
	limit, offset := limitOffset(ctx)
	items, err := a.qrCodes.List(ctx.Request.Context(), companyID, limit, offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (a *AdminController) scopedCompany(ctx *gin.Context, requested uint) (uint, bool) {
	user := currentUser(ctx)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return 0, false
	}
	if requested == 0 {
		return user.CompanyID, true
	}
	if requested != user.CompanyID && !user.Role.Can(models.CapManageCompanies) {
		utils.Error(ctx, http.StatusForbidden, 40313, "cannot manage another company")
		return 0, false
	}
	return requested, true
}

// GrantBonus awards discretionary points to the user in the path.
func (a *AdminController) GrantBonus(ctx *gin.Context) {
	grantor, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	userID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Points int    `json:"points"`
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	b, err := a.bonuses.Grant(ctx.Request.Context(), userID, grantor, req.Points, truncate(utils.Sanitize(req.Reason), 255))
	if err != nil {
		respondError(ctx, err)
		return
	}
	invalidateStats(userID)
	utils.Created(ctx, b)
}
