package profile

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/profiles", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	accountID := middleware.CurrentAccountID(c)
	profiles, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	primaryID := ""
	if p := pickPrimary(profiles); p != nil {
		primaryID = p.ID
	}
	items := make([]profileResponse, len(profiles))
	for i := range profiles {
		items[i] = toResponse(&profiles[i], primaryID)
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.CurrentAccountID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toResponse(p, ""))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidType):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrDuplicateProfile), errors.Is(err, ErrLastProfile):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
