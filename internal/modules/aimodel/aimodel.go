package aimodel

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
	"github.com/geoexplorer/core/internal/pkg/response"
)

// Service exposes the monitored-model catalog. The catalog is reference
// data; rows are managed out of band.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) ListActive() ([]models.AIModelModel, error) {
	var list []models.AIModelModel
	err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&list).Error
	return list, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/ai-models", authMW, h.list)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.ListActive()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, list)
}
