package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/access-request/internal"
	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
	"github.com/frahmantamala/access-request/internal/software"
	"gorm.io/gorm"
)

type SoftwareRepository struct {
	db *gorm.DB
}

func NewSoftwareRepository(db *gorm.DB) software.RepositoryAPI {
	return &SoftwareRepository{db: db}
}

func (r *SoftwareRepository) GetAll(ctx context.Context) ([]*softwareDatamodel.Software, error) {
	var items []*softwareDatamodel.Software
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *SoftwareRepository) GetByID(ctx context.Context, id int64) (*softwareDatamodel.Software, error) {
	var item softwareDatamodel.Software
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *SoftwareRepository) GetByName(ctx context.Context, name string) (*softwareDatamodel.Software, error) {
	var item softwareDatamodel.Software
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *SoftwareRepository) Create(ctx context.Context, item *softwareDatamodel.Software) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *SoftwareRepository) Update(ctx context.Context, item *softwareDatamodel.Software) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

// Delete reports whether a row was removed.
func (r *SoftwareRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&softwareDatamodel.Software{}, id)
	if err := translate(result.Error); err != nil {
		return false, err
	}
	return result.RowsAffected > 0, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return internal.ErrSoftwareNameTaken.WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.ErrSoftwareInUse.WithCause(err)
	default:
		return err
	}
}
