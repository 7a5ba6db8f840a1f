package accessrequest

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/access-request/internal"
	accessRequestDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/accessrequest"
	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
)

// ListFilter narrows List; zero values mean no restriction.
type ListFilter struct {
	UserID int64
	Status Status
}

// RepositoryAPI returns (nil, nil) from lookups that find nothing. Reads
// expand the user and software relations.
type RepositoryAPI interface {
	Create(ctx context.Context, r *accessRequestDatamodel.Request) error
	GetByID(ctx context.Context, id int64) (*accessRequestDatamodel.Request, error)
	List(ctx context.Context, filter ListFilter) ([]*accessRequestDatamodel.Request, error)
	// TransitionStatus writes to only if the row is still in from, and reports
	// whether it did.
	TransitionStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	CountBySoftwareID(ctx context.Context, softwareID int64) (int64, error)
}

type SoftwareReader interface {
	GetByID(ctx context.Context, id int64) (*softwareDatamodel.Software, error)
}

type Service struct {
	repo     RepositoryAPI
	software SoftwareReader
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, software SoftwareReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		software: software,
		logger:   logger,
	}
}

// Create files a pending request. Inactive software can still be requested;
// duplicates are allowed.
func (s *Service) Create(ctx context.Context, requesterID int64, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sw, err := s.software.GetByID(ctx, dto.SoftwareID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load software", err)
	}
	if sw == nil {
		return nil, internal.ErrSoftwareNotFound
	}

	record := ToDataModel(NewRequest(requesterID, dto))
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, s.wrapError(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "access request created",
		"request_id", record.ID,
		"user_id", requesterID,
		"software_id", dto.SoftwareID)
	return s.load(ctx, record.ID)
}

func (s *Service) ListMine(ctx context.Context, requesterID int64) ([]*Request, error) {
	return s.list(ctx, ListFilter{UserID: requesterID})
}

func (s *Service) ListAll(ctx context.Context) ([]*Request, error) {
	return s.list(ctx, ListFilter{})
}

func (s *Service) ListPending(ctx context.Context) ([]*Request, error) {
	return s.list(ctx, ListFilter{Status: StatusPending})
}

// UpdateStatus reviews a pending request. Of two concurrent reviews exactly
// one succeeds; the other sees ErrInvalidStatusTransition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Request, error) {
	target, ok := ParseStatus(status)
	if !ok {
		return nil, internal.ErrInvalidStatus
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, internal.ErrInvalidStatusTransition
	}

	applied, err := s.repo.TransitionStatus(ctx, id, StatusPending, target)
	if err != nil {
		return nil, s.wrapError(ctx, "update", err)
	}
	if !applied {
		// lost a race: the row changed or vanished since it was read
		if _, err := s.load(ctx, id); err != nil {
			return nil, err
		}
		return nil, internal.ErrInvalidStatusTransition
	}

	attrs := []any{"request_id", id, "status", target}
	if reviewer, ok := internal.UserFromContext(ctx); ok {
		attrs = append(attrs, "reviewer_id", reviewer.ID)
	}
	s.logger.InfoContext(ctx, "access request reviewed", attrs...)

	return s.load(ctx, id)
}

func (s *Service) Approve(ctx context.Context, id int64) (*Request, error) {
	return s.UpdateStatus(ctx, id, string(StatusApproved))
}

func (s *Service) Reject(ctx context.Context, id int64) (*Request, error) {
	return s.UpdateStatus(ctx, id, string(StatusRejected))
}

func (s *Service) list(ctx context.Context, filter ListFilter) ([]*Request, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.wrapError(ctx, "list", err)
	}

	items := make([]*Request, 0, len(records))
	for _, record := range records {
		items = append(items, FromDataModel(record))
	}
	return items, nil
}

func (s *Service) load(ctx context.Context, id int64) (*Request, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapError(ctx, "load", err)
	}
	if record == nil {
		return nil, internal.ErrRequestNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) wrapError(ctx context.Context, op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, "access request storage failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op+" access request", err)
}
