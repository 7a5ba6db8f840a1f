package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/accessrequest"
	accessRequestDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/accessrequest"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessRequestRepository struct {
	db *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) accessrequest.RepositoryAPI {
	return &AccessRequestRepository{db: db}
}

func (r *AccessRequestRepository) expanded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Software")
}

func (r *AccessRequestRepository) Create(ctx context.Context, req *accessRequestDatamodel.Request) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		// the software was deleted between lookup and insert
		return internal.ErrSoftwareNotFound.WithCause(err)
	}
	return err
}

func (r *AccessRequestRepository) GetByID(ctx context.Context, id int64) (*accessRequestDatamodel.Request, error) {
	var req accessRequestDatamodel.Request
	err := r.expanded(ctx).First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *AccessRequestRepository) List(ctx context.Context, filter accessrequest.ListFilter) ([]*accessRequestDatamodel.Request, error) {
	query := r.expanded(ctx)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var reqs []*accessRequestDatamodel.Request
	err := query.Order("id ASC").Find(&reqs).Error
	return reqs, err
}

// TransitionStatus is a compare-and-set on the status column.
func (r *AccessRequestRepository) TransitionStatus(ctx context.Context, id int64, from, to accessrequest.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&accessRequestDatamodel.Request{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *AccessRequestRepository) CountBySoftwareID(ctx context.Context, softwareID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accessRequestDatamodel.Request{}).
		Where("software_id = ?", softwareID).
		Count(&count).Error
	return count, err
}
