package commitments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cooperval/controladoria/internal/masterdata/shared"
)

// Invalidator is notified after any write so cached reports rebuild.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	reports  Invalidator
	logger   *slog.Logger
}

func NewService(repo Repository, reports Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validator.New(), reports: reports, logger: logger}
}

func (s *Service) List(ctx context.Context, companyID int64, filters shared.ListFilters) ([]Commitment, int, error) {
	if companyID <= 0 {
		return nil, 0, shared.ErrInvalidID
	}
	return s.repo.List(ctx, companyID, filters)
}

func (s *Service) Get(ctx context.Context, companyID int64, id string) (Commitment, error) {
	if companyID <= 0 || strings.TrimSpace(id) == "" {
		return Commitment{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Commitment, error) {
	if err := s.validate.Struct(in); err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return Commitment{}, err
	}
	s.bump(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, in Input) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := s.repo.Update(ctx, in); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, companyID int64, id string) error {
	if companyID <= 0 || strings.TrimSpace(id) == "" {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate report cache", slog.Any("error", err))
	}
}
