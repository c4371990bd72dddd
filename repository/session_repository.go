package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cart-store/apperrors"
	"cart-store/models"
)

// SessionRepository stores the current login in the single-row auth table.
type SessionRepository interface {
	// Save replaces any previous session with the given one.
	Save(ctx context.Context, session *models.Session) error
	// Get returns the cached session, or a NotFoundError when logged out.
	Get(ctx context.Context) (*models.Session, error)
	// Clear removes the cached session. Idempotent.
	Clear(ctx context.Context) error
}

// GormSessionRepository implements SessionRepository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository.
func NewGormSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if session == nil || session.AuthToken == "" {
		return apperrors.NewValidation("auth_token", "required")
	}
	if session.Email == "" {
		return apperrors.NewValidation("email", "required")
	}

	// Delete-then-insert inside one transaction keeps the table single-row.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
			return err
		}
		session.ID = 0
		return tx.Create(session).Error
	})
	if err != nil {
		return apperrors.NewStorage("SaveSession", err)
	}
	return nil
}

func (r *GormSessionRepository) Get(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("session")
		}
		return nil, apperrors.NewStorage("GetSession", err)
	}
	return &session, nil
}

func (r *GormSessionRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
		return apperrors.NewStorage("ClearSession", err)
	}
	return nil
}
