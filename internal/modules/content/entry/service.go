package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
	"github.com/mood-space/core/internal/pkg/revision"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrEmptyEntry    = errors.New("an entry needs some content or a photo")
	ErrMoodTooLong   = errors.New("mood must be at most 32 characters")
)

// Order is the created_at ordering of ListEntries.
type Order int

const (
	OrderAsc Order = iota
	OrderDesc
)

// ParseOrder reads "asc" or "desc"; anything else means ascending.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), "desc") {
		return OrderDesc
	}
	return OrderAsc
}

func (o Order) clause() string {
	if o == OrderDesc {
		return "created_at DESC, id DESC"
	}
	return "created_at ASC, id ASC"
}

// ProfileResolver maps a requested profile to one owned by the account.
type ProfileResolver interface {
	Resolve(ctx context.Context, accountID, profileID string) (*models.SubProfileModel, error)
}

// Feeder is told about every new entry.
type Feeder interface {
	Feed(ctx context.Context, accountID string, at time.Time) error
}

type Service struct {
	db        *gorm.DB
	profiles  ProfileResolver
	pets      Feeder
	revisions *revision.Tracker
	logger    *zap.Logger
}

func NewService(db *gorm.DB, profiles ProfileResolver, pets Feeder, revisions *revision.Tracker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, profiles: profiles, pets: pets, revisions: revisions, logger: logger}
}

// ListEntries returns every entry of one profile. Entries of other profiles of
// the same account are never included.
func (s *Service) ListEntries(ctx context.Context, accountID, profileID string, order Order) ([]models.EntryModel, error) {
	var rows []models.EntryModel
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND profile_id = ?", accountID, profileID).
		Order(order.clause()).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return rows, nil
}

// List pages through a profile's entries, newest first. A non-blank keyword
// keeps only entries whose content or meal type contains it, ignoring case.
func (s *Service) List(ctx context.Context, accountID, profileID, keyword string, q pagination.Query) ([]models.EntryModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.EntryModel{}).
		Where("account_id = ? AND profile_id = ?", accountID, profileID).
		Scopes(keywordScope(keyword)).
		Order(OrderDesc.clause())

	var rows []models.EntryModel
	pag, err := pagination.Paginate(tx, q, &rows)
	return rows, pag, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// keywordScope matches the calendar's keyword rule in SQL.
func keywordScope(keyword string) func(*gorm.DB) *gorm.DB {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return func(tx *gorm.DB) *gorm.DB {
		if kw == "" {
			return tx
		}
		pattern := "%" + likeEscaper.Replace(kw) + "%"
		return tx.Where("(LOWER(content) LIKE ? OR LOWER(meal_type) LIKE ?)", pattern, pattern)
	}
}

func (s *Service) Get(ctx context.Context, accountID, id string) (*models.EntryModel, error) {
	var row models.EntryModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Create stores a new entry under the requested profile (the primary one when
// none is given) and feeds the pet.
func (s *Service) Create(ctx context.Context, accountID string, dto *CreateEntryDTO) (*models.EntryModel, error) {
	profile, err := s.profiles.Resolve(ctx, accountID, dto.ProfileID)
	if err != nil {
		return nil, err
	}

	row, err := buildEntry(accountID, profile.ID, dto)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if s.pets != nil {
		if err := s.pets.Feed(ctx, accountID, row.CreatedAt); err != nil {
			s.logger.Warn("pet feeding failed", zap.String("account", accountID), zap.Error(err))
		}
	}
	s.bump(ctx, accountID)
	return row, nil
}

// Delete removes one of the account's entries.
func (s *Service) Delete(ctx context.Context, accountID, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.EntryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	s.bump(ctx, accountID)
	return nil
}

func (s *Service) bump(ctx context.Context, accountID string) {
	if err := s.revisions.Bump(ctx, accountID); err != nil {
		s.logger.Warn("revision bump failed", zap.String("account", accountID), zap.Error(err))
	}
}
