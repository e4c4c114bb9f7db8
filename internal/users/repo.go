package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail retrieves the user matching the provided (already normalized)
// email, with role joined.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a non-deleted user by their UUID, with role joined.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("id = ? AND status <> ?", id, enums.UserStatusDeleted).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOldestActiveByRole returns the longest-standing active account holding
// the given role, used to pick the impersonation target for demo sessions.
func (r *Repository) FindOldestActiveByRole(ctx context.Context, role enums.Role) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.role_name = ? AND users.status = ?", role, enums.UserStatusActive).
		Order("users.created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindForUpdate loads a user under a row-level lock on the supplied
// transaction handle; the lock serializes concurrent failed-login updates
// against the same account.
func (r *Repository) FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	handle := tx
	if handle == nil {
		handle = r.db
	}
	var user models.User
	err := handle.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLockState persists the failed-attempt counter and (optionally) the
// lockout deadline on the supplied transaction handle.
func (r *Repository) UpdateLockState(ctx context.Context, tx *gorm.DB, id uuid.UUID, attempts int, lockedUntil *time.Time) error {
	handle := tx
	if handle == nil {
		handle = r.db
	}
	return handle.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"login_attempts": attempts,
			"locked_until":   lockedUntil,
		}).Error
}

// ResetLoginState clears the failure counter and lock, and stamps the
// successful login time. Runs as a single UPDATE so no transaction is needed.
func (r *Repository) ResetLoginState(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"login_attempts": 0,
			"locked_until":   nil,
			"last_login_at":  at,
		}).Error
}
