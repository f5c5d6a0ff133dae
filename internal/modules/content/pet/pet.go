// Package pet keeps the account's companion fed: every new entry counts as a meal.
package pet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mood-space/core/internal/middleware"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusHappy  = "happy"
	StatusHungry = "hungry"

	// HungerWindow is how long one meal keeps the pet happy.
	HungerWindow = 24 * time.Hour
)

// Status derives the pet's mood from its last meal.
func Status(lastFedAt *time.Time, now time.Time) string {
	if lastFedAt == nil || lastFedAt.IsZero() {
		return StatusHungry
	}
	if now.Sub(*lastFedAt) < HungerWindow {
		return StatusHappy
	}
	return StatusHungry
}

type State struct {
	Status    string     `json:"status"`
	LastFedAt *time.Time `json:"last_fed_at"`
	HungryAt  *time.Time `json:"hungry_at,omitempty"`
}

func stateOf(lastFedAt *time.Time, now time.Time) State {
	st := State{Status: Status(lastFedAt, now), LastFedAt: lastFedAt}
	if lastFedAt != nil && !lastFedAt.IsZero() {
		hungry := lastFedAt.Add(HungerWindow)
		st.HungryAt = &hungry
	}
	return st
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Feed records a meal at the given time.
func (s *Service) Feed(ctx context.Context, accountID string, at time.Time) error {
	fed := at.UTC()
	row := models.PetStateModel{AccountID: accountID, LastFedAt: &fed}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_fed_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("feed pet: %w", err)
	}
	return nil
}

// State returns the pet's current status; accounts that never fed it see a hungry pet.
func (s *Service) State(ctx context.Context, accountID string) (State, error) {
	var row models.PetStateModel
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return State{}, err
	}
	return stateOf(row.LastFedAt, s.now()), nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/pet", authMW)
	g.GET("", h.get)
	g.POST("/feed", h.feed)
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.svc.State(c.Request.Context(), middleware.CurrentAccountID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) feed(c *gin.Context) {
	accountID := middleware.CurrentAccountID(c)
	if err := h.svc.Feed(c.Request.Context(), accountID, h.svc.now()); err != nil {
		response.InternalError(c, err)
		return
	}
	h.get(c)
}
