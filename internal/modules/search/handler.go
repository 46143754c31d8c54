package search

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/models"
	"github.com/geoexplorer/core/internal/pkg/pagination"
	"github.com/geoexplorer/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/run-ai-search", authMW, h.runSearch)
	rg.GET("/search-logs", authMW, h.listLogs)
	rg.POST("/search-logs", authMW, h.createLog)
	rg.GET("/search-analytics", authMW, h.analytics)
}

// runSearchBody accepts both key forms; the _id variant wins when both are set.
type runSearchBody struct {
	SearchTermID string `json:"search_term_id"`
	SearchTerm   string `json:"search_term"`
	AIModelID    string `json:"ai_model_id"`
	AIModel      string `json:"ai_model"`
}

func (b *runSearchBody) toInput() RunInput {
	input := RunInput{
		SearchTermID: strings.TrimSpace(b.SearchTermID),
		AIModelID:    strings.TrimSpace(b.AIModelID),
	}
	if input.SearchTermID == "" {
		input.SearchTermID = strings.TrimSpace(b.SearchTerm)
	}
	if input.AIModelID == "" {
		input.AIModelID = strings.TrimSpace(b.AIModel)
	}
	return input
}

func (h *Handler) runSearch(c *gin.Context) {
	var body runSearchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	input := body.toInput()
	if input.SearchTermID == "" || input.AIModelID == "" {
		response.BadRequest(c, "both search_term_id and ai_model_id are required")
		return
	}

	meta := RequestMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}

	entry, err := h.svc.Run(c.Request.Context(), middleware.CurrentUserID(c), input, meta)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			response.NotFoundMsg(c, "Business profile not found. Please complete onboarding first.")
		case errors.Is(err, ErrTermNotFound), errors.Is(err, ErrModelNotFound):
			response.NotFoundMsg(c, "Search term or AI model not found")
		default:
			// Upstream model failures surface here as well.
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, entry)
}

func (h *Handler) listLogs(c *gin.Context) {
	profile, err := h.svc.profileForUser(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFoundMsg(c, "Business profile not found. Please complete onboarding first.")
			return
		}
		response.InternalError(c, err)
		return
	}

	query := h.svc.db.Model(&models.SearchLogModel{}).
		Where("search_logs.business_profile_id = ?", profile.ID)

	if termID := c.Query("search_term"); termID != "" {
		query = query.Where("search_logs.search_term_id = ?", termID)
	}
	if modelID := c.Query("ai_model"); modelID != "" {
		query = query.Where("search_logs.ai_model_id = ?", modelID)
	}

	sentiment := c.Query("sentiment")
	mentioned := c.Query("business_mentioned")
	if sentiment != "" || mentioned != "" {
		query = query.Joins("JOIN analyses ON analyses.search_log_id = search_logs.id")
		if sentiment != "" {
			query = query.Where("analyses.sentiment = ?", sentiment)
		}
		if mentioned != "" {
			query = query.Where("analyses.business_mentioned = ?", strings.EqualFold(mentioned, "true"))
		}
	}

	query = query.
		Preload("SearchTerm").Preload("AIModel").Preload("Analysis").
		Order("search_logs.created_at DESC")

	var logs []models.SearchLogModel
	meta, err := pagination.Paginate(query, pagination.FromContext(c), &logs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, logs, meta)
}

type createLogInput struct {
	SearchTermID   string `json:"search_term_id" binding:"required"`
	AIModelID      string `json:"ai_model_id"    binding:"required"`
	Query          string `json:"query"          binding:"required"`
	Response       string `json:"response"`
	ResponseTimeMs int    `json:"response_time_ms"`
	TokensUsed     int    `json:"tokens_used"`
}

// createLog records an externally observed search without dispatching one.
func (h *Handler) createLog(c *gin.Context) {
	profile, err := h.svc.profileForUser(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFoundMsg(c, "Business profile not found. Please complete onboarding first.")
			return
		}
		response.InternalError(c, err)
		return
	}

	var input createLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var term models.SearchTermModel
	if err := h.svc.db.Where("id = ? AND business_profile_id = ?", input.SearchTermID, profile.ID).First(&term).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundMsg(c, "Search term or AI model not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	var model models.AIModelModel
	if err := h.svc.db.First(&model, "id = ?", input.AIModelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundMsg(c, "Search term or AI model not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	entry := &models.SearchLogModel{
		BusinessProfileID:    profile.ID,
		SearchTermID:         term.ID,
		AIModelID:            model.ID,
		Query:                input.Query,
		Response:             input.Response,
		ResponseTimeMs:       input.ResponseTimeMs,
		TokensUsed:           input.TokensUsed,
		CurrentCostInputUSD:  model.CostPerMillionInputUSD,
		CurrentCostOutputUSD: model.CostPerMillionOutputUSD,
		UserAgent:            c.Request.UserAgent(),
		IPAddress:            c.ClientIP(),
	}
	if err := h.svc.db.Create(entry).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, entry)
}

func (h *Handler) analytics(c *gin.Context) {
	profile, err := h.svc.profileForUser(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFoundMsg(c, "Business profile not found. Please complete onboarding first.")
			return
		}
		response.InternalError(c, err)
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "days must be a positive integer")
			return
		}
		days = parsed
	}

	report, err := h.svc.Analytics(profile.ID, days)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}
