package postgres

import (
	"context"

	"shorts/internal/domain/entity"
	domainerrors "shorts/internal/domain/errors"
	"shorts/internal/domain/repository"
	"shorts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userIdentityRepository implements the repository.UserIdentityRepository interface.
type userIdentityRepository struct {
	db *gorm.DB
}

// NewUserIdentityRepository is the constructor for userIdentityRepository.
func NewUserIdentityRepository(db *gorm.DB) repository.UserIdentityRepository {
	return &userIdentityRepository{
		db: db,
	}
}

// Upsert inserts or updates the identity record keyed by user id. Email and
// refresh credential are overwritten unconditionally, so concurrent writers
// converge on whichever statement the database applied last.
func (repo *userIdentityRepository) Upsert(ctx context.Context, identity *entity.UserIdentity) error {
	identityM := fromIdentityDomain(identity)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "refresh_token", "updated_at"}),
		}).
		Create(identityM).Error
	if err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrIdentityPersistFailed.WrapMessage("missing required identity information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert user identity")
	}

	identity.CreatedAt = identityM.CreatedAt
	identity.UpdatedAt = identityM.UpdatedAt

	return nil
}

// FindByID retrieves the identity record for a user id.
func (repo *userIdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserIdentity, error) {
	var identityM model.UserIdentityModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&identityM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.Wrap(err, "failed to find user identity by ID")
	}

	return toIdentityDomain(&identityM), nil
}

// --- Mapper Functions ---

// toIdentityDomain converts a GORM UserIdentityModel to a domain UserIdentity entity.
func toIdentityDomain(data *model.UserIdentityModel) *entity.UserIdentity {
	if data == nil {
		return nil
	}

	return &entity.UserIdentity{
		ID:           data.ID,
		Email:        data.Email,
		RefreshToken: data.RefreshToken,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromIdentityDomain converts a domain UserIdentity entity to a GORM UserIdentityModel.
func fromIdentityDomain(data *entity.UserIdentity) *model.UserIdentityModel {
	if data == nil {
		return nil
	}

	return &model.UserIdentityModel{
		ID:           data.ID,
		Email:        data.Email,
		RefreshToken: data.RefreshToken,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
