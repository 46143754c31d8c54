package business

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	b := rg.Group("/business", authMW)

	b.GET("/profile", h.getProfile)
	b.POST("/profile", h.upsertProfile)
	b.GET("/onboarding-status", h.onboardingStatus)
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.svc.Get(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFoundMsg(c, "No business profile found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, profile)
}

func (h *Handler) upsertProfile(c *gin.Context) {
	var dto ProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.svc.Upsert(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, ErrNameRequired) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, profile)
}

func (h *Handler) onboardingStatus(c *gin.Context) {
	profile, err := h.svc.Get(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.OK(c, gin.H{
				"onboarding_completed": false,
				"has_profile":          false,
			})
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"onboarding_completed": profile.OnboardingCompleted,
		"has_profile":          true,
	})
}
