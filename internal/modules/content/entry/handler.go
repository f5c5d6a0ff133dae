package entry

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/modules/content/profile"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	store middleware.ReservingStore
}

// NewHandler wires the entry routes. store backs create idempotence and may be nil.
func NewHandler(svc *Service, store middleware.ReservingStore) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/entries", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", middleware.Idempotence(h.store), h.create)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := middleware.CurrentAccountID(c)
	p, err := h.svc.profiles.Resolve(ctx, accountID, c.Query("profile"))
	if err != nil {
		writeError(c, err)
		return
	}

	rows, pag, err := h.svc.List(ctx, accountID, p.ID, c.Query("keyword"), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	renderHTML := wantsHTML(c)
	items := make([]entryResponse, len(rows))
	for i := range rows {
		items[i] = toResponse(&rows[i], renderHTML)
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, toResponse(row, wantsHTML(c)))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	row, err := h.svc.Create(c.Request.Context(), middleware.CurrentAccountID(c), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toResponse(row, wantsHTML(c)))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentAccountID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func wantsHTML(c *gin.Context) bool {
	return c.Query("render") == "html"
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, profile.ErrProfileNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrEmptyEntry), errors.Is(err, ErrMoodTooLong):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
