package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/models"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByID(ctx context.Context, id uint) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, uid string) (*models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL.
// Absent rows surface as gorm.ErrRecordNotFound.
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile inserts a new profile row.
func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetProfileByID retrieves a profile by its primary key.
func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUserID retrieves the profile owned by a user account.
func (r *PostgresProfileRepository) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByFirebaseUID retrieves the profile linked to a Firebase account.
func (r *PostgresProfileRepository) GetProfileByFirebaseUID(ctx context.Context, uid string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
