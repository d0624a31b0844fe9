package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/http/middleware"
	"github.com/nurpe/contracts-billing/internal/model"
	"github.com/nurpe/contracts-billing/internal/service"
)

type JobsService interface {
	PayForJob(ctx context.Context, jobID, payerID int64) (*model.Job, error)
	ListUnpaidJobs(ctx context.Context, profileID int64) ([]model.Job, error)
	Receipt(ctx context.Context, jobID, profileID int64) (string, []byte, error)
}

type ProfilesService interface {
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	DepositBalance(ctx context.Context, profileID int64, amount decimal.Decimal) (*model.Profile, error)
}

type ContractsService interface {
	GetContract(ctx context.Context, id, profileID int64) (*model.Contract, error)
	ListActiveContracts(ctx context.Context, profileID int64) ([]model.Contract, error)
}

type AdminsService interface {
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.BestClient, error)
	BestProfession(ctx context.Context, start, end time.Time) (*model.BestProfession, error)
	ExportBestClients(ctx context.Context, start, end time.Time, limit int) (string, []byte, error)
}

type Handler struct {
	jobs      JobsService
	profiles  ProfilesService
	contracts ContractsService
	admin     AdminsService
	log       zerolog.Logger
}

func NewHandler(jobs JobsService, profiles ProfilesService, contracts ContractsService, admin AdminsService, log zerolog.Logger) *Handler {
	return &Handler{
		jobs:      jobs,
		profiles:  profiles,
		contracts: contracts,
		admin:     admin,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/profiles/:id", h.getProfile)
	protected.POST("/profiles/:id/deposit", h.deposit)

	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:id/pay", h.payForJob)
	protected.GET("/jobs/:id/receipt", h.jobReceipt)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)

	protected.GET("/admin/best-clients", h.bestClients)
	protected.GET("/admin/best-clients/export", h.exportBestClients)
	protected.GET("/admin/best-profession", h.bestProfession)
}

type profileResponse struct {
	ID         int64  `json:"id"`
	UUID       string `json:"uuid"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Profession string `json:"profession"`
	Balance    string `json:"balance"`
	Role       string `json:"role"`
}

type contractResponse struct {
	ID           int64  `json:"id"`
	UUID         string `json:"uuid"`
	Terms        string `json:"terms"`
	Status       string `json:"status"`
	ClientID     *int64 `json:"clientId"`
	ContractorID *int64 `json:"contractorId"`
}

type jobResponse struct {
	ID          int64  `json:"id"`
	UUID        string `json:"uuid"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsPaid      bool   `json:"isPaid"`
	PaidDate    string `json:"paidDate,omitempty"`
	ContractID  int64  `json:"contractId"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) getProfile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) deposit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	profile, err := h.profiles.DepositBalance(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobs, err := h.jobs.ListUnpaidJobs(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) payForJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseIDParam(c)
	if !ok {
		return
	}

	job, err := h.jobs.PayForJob(c.Request.Context(), jobID, principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (h *Handler) jobReceipt(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	jobID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileName, content, err := h.jobs.Receipt(c.Request.Context(), jobID, principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.ListActiveContracts(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]contractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, toContractResponse(&contracts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), id, principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(contract))
}

func (h *Handler) bestClients(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	clients, err := h.admin.BestClients(c.Request.Context(), start, end, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(clients))
	for _, client := range clients {
		out = append(out, gin.H{
			"id":        client.ID,
			"fullName":  client.FirstName + " " + client.LastName,
			"totalPaid": client.TotalPaid.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) exportBestClients(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	fileName, content, err := h.admin.ExportBestClients(c.Request.Context(), start, end, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) bestProfession(c *gin.Context) {
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	best, err := h.admin.BestProfession(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profession":    best.Profession,
		"totalEarnings": best.TotalEarnings.String(),
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var insufficient *service.InsufficientBalanceError
	var limit *service.DepositLimitError
	var txErr *service.TransactionError

	switch {
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrNotContractClient):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          insufficient.Error(),
			"currentBalance": insufficient.CurrentBalance.String(),
			"requiredAmount": insufficient.RequiredAmount.String(),
		})
	case errors.As(err, &limit):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      limit.Error(),
			"amount":     limit.Amount.String(),
			"maxDeposit": limit.MaxDeposit.String(),
		})
	case errors.As(err, &txErr):
		h.log.Error().Err(errors.Unwrap(txErr)).Str("op", txErr.Op).Int64("id", txErr.EntityID).Msg("transaction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": txErr.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func toProfileResponse(profile *model.Profile) profileResponse {
	return profileResponse{
		ID:         profile.ID,
		UUID:       profile.UUID.String(),
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Profession: profile.Profession,
		Balance:    profile.Balance.String(),
		Role:       string(profile.Role),
	}
}

func toContractResponse(contract *model.Contract) contractResponse {
	return contractResponse{
		ID:           contract.ID,
		UUID:         contract.UUID.String(),
		Terms:        contract.Terms,
		Status:       string(contract.Status),
		ClientID:     contract.ClientID,
		ContractorID: contract.ContractorID,
	}
}

func toJobResponse(job *model.Job) jobResponse {
	out := jobResponse{
		ID:          job.ID,
		UUID:        job.UUID.String(),
		Description: job.Description,
		Price:       job.Price.String(),
		IsPaid:      job.IsPaid,
		ContractID:  job.ContractID,
	}
	if job.PaidDate != nil {
		out.PaidDate = job.PaidDate.UTC().Format(time.RFC3339)
	}
	return out
}
