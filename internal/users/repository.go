package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/techlab/challenge-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no active user matches.
var ErrNotFound = errors.New("user not found")

// Repository defines persistence operations for users. Every lookup only
// sees active (not soft-deleted) records.
type Repository interface {
	// FindActiveByID returns the user with posts and comments attached.
	FindActiveByID(ctx context.Context, id string) (*models.User, error)
	// FindActiveByIdentifier matches username OR email in a single query.
	FindActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	SoftDelete(ctx context.Context, id string) error
	Create(ctx context.Context, u *models.User) error
}

// GormRepository implements Repository on a relational database.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository for the given connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Posts").
		Preload("Comments").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	return &u, nil
}

func (r *GormRepository) FindActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var found []models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		Limit(2).
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by identifier: %w", err)
	}
	return pickIdentifierMatch(found, identifier)
}

// Update writes the mutable columns of an active user. It never inserts, so a
// record soft-deleted since it was read stays deleted and yields ErrNotFound.
func (r *GormRepository) Update(ctx context.Context, u *models.User) error {
	res := r.db.WithContext(ctx).
		Model(u).
		Select("username", "email", "password", "profile", "updated_at").
		Updates(u)
	if res.Error != nil {
		return fmt.Errorf("failed to update user id %s: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user id %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// pickIdentifierMatch resolves the (at most two) rows matched by
// "username = X OR email = X". A username match wins over an email match so
// the result does not depend on storage order.
func pickIdentifierMatch(found []models.User, identifier string) (*models.User, error) {
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	for i := range found {
		if found[i].Username == identifier {
			return &found[i], nil
		}
	}
	return &found[0], nil
}
