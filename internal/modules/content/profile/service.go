package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/revision"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultProfileName is given to the profile created for a new account.
const DefaultProfileName = "Me"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrLastProfile      = errors.New("you must keep at least one profile")
	ErrDuplicateProfile = errors.New("a profile with this name already exists")
	ErrInvalidName      = errors.New("profile name must be 1 to 64 characters")
	ErrInvalidType      = errors.New("profile type must be human or pet")
)

type Service struct {
	db        *gorm.DB
	revisions *revision.Tracker
	logger    *zap.Logger
}

func NewService(db *gorm.DB, revisions *revision.Tracker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, revisions: revisions, logger: logger}
}

// List returns the account's profiles in creation order. An account without
// any profile gets the default one first.
func (s *Service) List(ctx context.Context, accountID string) ([]models.SubProfileModel, error) {
	profiles, err := s.find(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(profiles) > 0 {
		return profiles, nil
	}

	if err := s.db.WithContext(ctx).Create(defaultProfile(accountID)).Error; err != nil && !isDuplicateProfileError(err) {
		return nil, fmt.Errorf("create default profile: %w", err)
	}
	// a concurrent request may have created it first; read back either way
	return s.find(ctx, accountID)
}

func (s *Service) find(ctx context.Context, accountID string) ([]models.SubProfileModel, error) {
	var profiles []models.SubProfileModel
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Primary returns the profile used when a request does not name one.
func (s *Service) Primary(ctx context.Context, accountID string) (*models.SubProfileModel, error) {
	profiles, err := s.List(ctx, accountID)
	if err != nil {
		return nil, err
	}
	primary := pickPrimary(profiles)
	if primary == nil {
		return nil, ErrProfileNotFound
	}
	return primary, nil
}

// Get returns one of the account's profiles.
func (s *Service) Get(ctx context.Context, accountID, id string) (*models.SubProfileModel, error) {
	var p models.SubProfileModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Resolve returns the named profile, or the primary one when id is empty.
func (s *Service) Resolve(ctx context.Context, accountID, id string) (*models.SubProfileModel, error) {
	if strings.TrimSpace(id) == "" {
		return s.Primary(ctx, accountID)
	}
	return s.Get(ctx, accountID, id)
}

func (s *Service) Create(ctx context.Context, accountID string, dto *CreateProfileDTO) (*models.SubProfileModel, error) {
	p, err := buildProfile(accountID, dto)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateProfileError(err) {
			return nil, ErrDuplicateProfile
		}
		return nil, err
	}
	s.bump(ctx, accountID)
	return p, nil
}

// Delete removes a profile together with its entries. The last profile of an
// account cannot be deleted.
func (s *Service) Delete(ctx context.Context, accountID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SubProfileModel{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
			return err
		}

		var target models.SubProfileModel
		if err := tx.Where("id = ? AND account_id = ?", id, accountID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if count <= 1 {
			return ErrLastProfile
		}

		if err := tx.Where("account_id = ? AND profile_id = ?", accountID, id).Delete(&models.EntryModel{}).Error; err != nil {
			return fmt.Errorf("delete profile entries: %w", err)
		}
		// hard delete frees the name for reuse
		return tx.Unscoped().Delete(&target).Error
	})
	if err != nil {
		return err
	}
	s.bump(ctx, accountID)
	return nil
}

func (s *Service) bump(ctx context.Context, accountID string) {
	if err := s.revisions.Bump(ctx, accountID); err != nil {
		s.logger.Warn("revision bump failed", zap.String("account", accountID), zap.Error(err))
	}
}

func isDuplicateProfileError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062 && strings.Contains(mysqlErr.Message, "uniq_profiles_account_name")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") && strings.Contains(msg, "uniq_profiles_account_name")
}
