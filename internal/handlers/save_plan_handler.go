package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "isave/internal/errors"
	"isave/internal/models"
	"isave/internal/services"
)

// SavePlanHandler handles savings plan requests
type SavePlanHandler struct {
	savePlanService services.SavePlanServicer
	auditService    services.AuditServicer
}

// NewSavePlanHandler creates a new SavePlanHandler
func NewSavePlanHandler(savePlanService services.SavePlanServicer, auditService services.AuditServicer) *SavePlanHandler {
	return &SavePlanHandler{savePlanService: savePlanService, auditService: auditService}
}

// CreateSavePlanRequest represents the request body for creating a savings plan.
// Amounts are in minor units; target_date accepts RFC 3339 or YYYY-MM-DD.
type CreateSavePlanRequest struct {
	Title          string `json:"title" binding:"required,max=100"`
	Description    string `json:"description" binding:"max=500"`
	TargetAmount   int64  `json:"target_amount" binding:"required,gt=0"`
	Frequency      string `json:"frequency" binding:"required,save_frequency"`
	AutoSaveAmount *int64 `json:"auto_save_amount" binding:"omitempty,gt=0"`
	TargetDate     string `json:"target_date" binding:"required"`
	InitialDeposit *int64 `json:"initial_deposit" binding:"omitempty,gte=0"`
}

// DepositRequest represents the request body for depositing into a plan.
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateSavePlan handles savings plan creation
// @Summary     Create savings plan
// @Description Create a savings plan, optionally seeding it from the wallet
// @Tags        save-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSavePlanRequest true "Savings plan data"
// @Success     201 {object} map[string]models.SavePlan
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /save-plans [post]
func (h *SavePlanHandler) CreateSavePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_date must be RFC 3339 or YYYY-MM-DD"))
		return
	}

	plan, err := h.savePlanService.CreateSavePlan(c.Request.Context(), userID, services.CreateSavePlanInput{
		Title:          req.Title,
		Description:    req.Description,
		TargetAmount:   req.TargetAmount,
		Frequency:      models.SaveFrequency(req.Frequency),
		AutoSaveAmount: req.AutoSaveAmount,
		TargetDate:     targetDate,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_SAVE_PLAN", "save_plan", plan.ID, c.ClientIP(),
		map[string]any{"title": plan.Title, "target_amount": plan.TargetAmount, "current_amount": plan.CurrentAmount})

	c.JSON(http.StatusCreated, gin.H{"save_plan": plan})
}

// GetSavePlans lists the user's savings plans
// @Summary     List savings plans
// @Tags        save-plans
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.SavePlan
// @Failure     401 {object} ErrorResponse
// @Router      /save-plans [get]
func (h *SavePlanHandler) GetSavePlans(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plans, err := h.savePlanService.GetUserSavePlans(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"save_plans": plans})
}

// GetSavePlan returns a plan with its progress and recent transactions
// @Summary     Get savings plan
// @Tags        save-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings plan ID"
// @Success     200 {object} map[string]services.SavePlanDetail
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     403 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /save-plans/{id} [get]
func (h *SavePlanHandler) GetSavePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.savePlanService.GetSavePlanByID(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"save_plan": detail})
}

// Deposit moves money from the wallet into a plan
// @Summary     Deposit into savings plan
// @Tags        save-plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Savings plan ID"
// @Param       request body DepositRequest true "Deposit amount"
// @Success     200 {object} map[string]models.SavePlan
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /save-plans/{id}/deposit [post]
func (h *SavePlanHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.savePlanService.Deposit(c.Request.Context(), userID, planID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DEPOSIT_SAVE_PLAN", "save_plan", plan.ID, c.ClientIP(),
		map[string]any{"amount": req.Amount, "current_amount": plan.CurrentAmount})

	c.JSON(http.StatusOK, gin.H{"save_plan": plan})
}

// BreakPlan cancels a plan and returns its balance to the wallet
// @Summary     Break savings plan
// @Description Cancel an active plan early. An empty plan is deleted instead.
// @Tags        save-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings plan ID"
// @Success     200 {object} services.BreakPlanResult
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /save-plans/{id}/break [post]
func (h *SavePlanHandler) BreakPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.savePlanService.BreakPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "BREAK_SAVE_PLAN", "save_plan", planID, c.ClientIP(),
		map[string]any{"message": result.Message})

	c.JSON(http.StatusOK, result)
}

// WithdrawCompletedPlan withdraws a matured plan into the wallet
// @Summary     Withdraw matured savings plan
// @Tags        save-plans
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Savings plan ID"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /save-plans/{id}/withdraw [post]
func (h *SavePlanHandler) WithdrawCompletedPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.savePlanService.WithdrawCompletedPlan(c.Request.Context(), userID, planID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "WITHDRAW_SAVE_PLAN", "save_plan", planID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
