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
)

// jobRepository implements the repository.JobRepository interface.
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository is the constructor for jobRepository.
func NewJobRepository(db *gorm.DB) repository.JobRepository {
	return &jobRepository{
		db: db,
	}
}

// Create inserts a new job record and writes the generated id and creation
// timestamp back onto the entity.
func (repo *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	jobM := fromJobDomain(job)

	if err := repo.db.WithContext(ctx).Create(jobM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrJobCreationFailed.WrapMessage("unknown owning user")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrJobCreationFailed.WrapMessage("missing required job information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create job")
	}

	job.ID = jobM.ID
	job.CreatedAt = jobM.CreatedAt

	return nil
}

// FindByUser retrieves every job owned by the user, newest first.
func (repo *jobRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Job, error) {
	var jobModels []*model.JobModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jobModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find jobs by user")
	}

	jobs := make([]*entity.Job, 0, len(jobModels))
	for _, jobM := range jobModels {
		jobs = append(jobs, toJobDomain(jobM))
	}

	return jobs, nil
}

// --- Mapper Functions ---

// toJobDomain converts a GORM JobModel to a domain Job entity.
func toJobDomain(data *model.JobModel) *entity.Job {
	if data == nil {
		return nil
	}

	return &entity.Job{
		ID:        data.ID,
		UserID:    data.UserID,
		VideoURL:  data.VideoURL,
		Status:    entity.JobStatus(data.Status),
		CreatedAt: data.CreatedAt,
	}
}

// fromJobDomain converts a domain Job entity to a GORM JobModel.
func fromJobDomain(data *entity.Job) *model.JobModel {
	if data == nil {
		return nil
	}

	return &model.JobModel{
		ID:        data.ID,
		UserID:    data.UserID,
		VideoURL:  data.VideoURL,
		Status:    string(data.Status),
		CreatedAt: data.CreatedAt,
	}
}
