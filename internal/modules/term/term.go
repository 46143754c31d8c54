package term

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/models"
	"github.com/geoexplorer/core/internal/pkg/response"
)

var (
	errProfileNotFound = errors.New("business profile not found")
	errTermNotFound    = errors.New("search term not found")
	errDuplicateTerm   = errors.New("search term already exists")
)

type TermDTO struct {
	Term        string `json:"term"        binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateTermDTO struct {
	Term        *string `json:"term"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) profileFor(userID string) (*models.BusinessProfileModel, error) {
	var profile models.BusinessProfileModel
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) List(userID string) ([]models.SearchTermModel, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}
	var terms []models.SearchTermModel
	err = s.db.Where("business_profile_id = ?", profile.ID).
		Order("created_at DESC").Find(&terms).Error
	return terms, err
}

func (s *Service) Create(userID string, dto *TermDTO) (*models.SearchTermModel, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}

	termText := strings.TrimSpace(dto.Term)
	var count int64
	err = s.db.Model(&models.SearchTermModel{}).
		Where("business_profile_id = ? AND term = ?", profile.ID, termText).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errDuplicateTerm
	}

	t := models.SearchTermModel{
		BusinessProfileID: profile.ID,
		Term:              termText,
		Description:       dto.Description,
		IsActive:          true,
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
	}
	return &t, s.db.Create(&t).Error
}

func (s *Service) Get(userID, termID string) (*models.SearchTermModel, error) {
	profile, err := s.profileFor(userID)
	if err != nil {
		return nil, err
	}
	var t models.SearchTermModel
	err = s.db.Where("id = ? AND business_profile_id = ?", termID, profile.ID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Update(userID, termID string, dto *UpdateTermDTO) (*models.SearchTermModel, error) {
	t, err := s.Get(userID, termID)
	if err != nil {
		return nil, err
	}
	if dto.Term != nil && strings.TrimSpace(*dto.Term) != "" {
		t.Term = strings.TrimSpace(*dto.Term)
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
	}
	return t, s.db.Save(t).Error
}

func (s *Service) Delete(userID, termID string) error {
	t, err := s.Get(userID, termID)
	if err != nil {
		return err
	}
	return s.db.Delete(t).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/search-terms", authMW)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	terms, err := h.svc.List(middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, terms)
}

func (h *Handler) create(c *gin.Context) {
	var dto TermDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, t)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, t)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateTermDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Update(middleware.CurrentUserID(c), c.Param("id"), &dto)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, t)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errProfileNotFound):
		response.NotFoundMsg(c, "Business profile not found. Please complete onboarding first.")
	case errors.Is(err, errTermNotFound):
		response.NotFoundMsg(c, "Search term not found")
	case errors.Is(err, errDuplicateTerm):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
