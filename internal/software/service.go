package software

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/access-request/internal"
	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
)

// RepositoryAPI returns (nil, nil) from lookups that find nothing.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*softwareDatamodel.Software, error)
	GetByID(ctx context.Context, id int64) (*softwareDatamodel.Software, error)
	GetByName(ctx context.Context, name string) (*softwareDatamodel.Software, error)
	Create(ctx context.Context, s *softwareDatamodel.Software) error
	Update(ctx context.Context, s *softwareDatamodel.Software) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// RequestCounter reports how many access requests reference a software title.
type RequestCounter interface {
	CountBySoftwareID(ctx context.Context, softwareID int64) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	requests RequestCounter
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, requests RequestCounter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		requests: requests,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Software, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list software", "error", err)
		return nil, internal.NewInternalError("failed to list software", err)
	}

	items := make([]*Software, 0, len(records))
	for _, record := range records {
		items = append(items, FromDataModel(record))
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Software, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load software", err)
	}
	if record == nil {
		return nil, internal.ErrSoftwareNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(ctx context.Context, dto CreateSoftwareDTO) (*Software, error) {
	item := NewSoftware(dto)
	if err := validateSoftware(item); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, item.Name, 0); err != nil {
		return nil, err
	}

	record := ToDataModel(item)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, s.wrapWriteError(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "software created", "software_id", record.ID, "name", record.Name)
	return FromDataModel(record), nil
}

// Update merges patch into the stored record and validates the result.
func (s *Service) Update(ctx context.Context, id int64, patch UpdateSoftwareDTO) (*Software, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Apply(patch)
	if err := validateSoftware(item); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := s.ensureNameFree(ctx, item.Name, id); err != nil {
			return nil, err
		}
	}

	record := ToDataModel(item)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, s.wrapWriteError(ctx, "update", err)
	}

	s.logger.InfoContext(ctx, "software updated", "software_id", id)
	return FromDataModel(record), nil
}

// Delete removes a title that no request references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.requests.CountBySoftwareID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check software usage", err)
	}
	if count > 0 {
		return internal.ErrSoftwareInUse
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.wrapWriteError(ctx, "delete", err)
	}
	if !deleted {
		return internal.ErrSoftwareNotFound
	}

	s.logger.InfoContext(ctx, "software deleted", "software_id", id)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return internal.NewInternalError("failed to check software name", err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.ErrSoftwareNameTaken
	}
	return nil
}

func (s *Service) wrapWriteError(ctx context.Context, op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, "software write failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op+" software", err)
}
