package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/refresh", h.refresh)
	a.POST("/logout", authMW, h.logout)
	a.POST("/logout-all", authMW, h.logoutAll)
	a.GET("/user", authMW, h.user)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errPasswordMismatch):
			response.BadRequest(c, "Password fields didn't match.")
		case errors.Is(err, errEmailTaken), errors.Is(err, errUsernameTaken):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toUserResponse(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tokens, u, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			response.UnauthorizedMsg(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toLoginResponse(tokens, u))
}

func (h *Handler) refresh(c *gin.Context) {
	var dto RefreshDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tokens, u, err := h.svc.Refresh(dto.Refresh)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			response.UnauthorizedMsg(c, "Invalid or expired refresh token")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toLoginResponse(tokens, u))
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) logoutAll(c *gin.Context) {
	if err := h.svc.LogoutAll(middleware.CurrentUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Successfully logged out of all sessions"})
}

func (h *Handler) user(c *gin.Context) {
	u, err := h.svc.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toUserResponse(u))
}
