package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/validation"
	"github.com/rs/zerolog"
)

const supplierExists = "Supplier name already exists"

// supplierService is the concrete implementation of SupplierService
type supplierService struct {
	suppliers repository.SupplierRepository
	authz     *authz.Authorizer
	stats     cache.StatsCache
	log       zerolog.Logger
}

func newSupplierService(repos *repository.Repositories, deps Deps, log zerolog.Logger) *supplierService {
	return &supplierService{
		suppliers: repos.Supplier,
		authz:     deps.Authorizer,
		stats:     deps.Stats,
		log:       log.With().Str("service", "supplier").Logger(),
	}
}

func (s *supplierService) load(ctx context.Context, id int64) (*models.Supplier, error) {
	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", id, err)
	}
	if sup == nil {
		return nil, errs.NewNotFoundError("Supplier not found")
	}
	return sup, nil
}

// List returns suppliers ordered by name, optionally filtered by a name substring
func (s *supplierService) List(ctx context.Context, actor authz.Actor, search string) ([]*models.Supplier, error) {
	if err := s.authz.Require(actor, authz.SupplierRead); err != nil {
		return nil, err
	}
	suppliers, err := s.suppliers.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *supplierService) Get(ctx context.Context, actor authz.Actor, id int64) (*models.Supplier, error) {
	if err := s.authz.Require(actor, authz.SupplierRead); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *supplierService) checkName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.suppliers.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up supplier name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return errs.NewConflictError(supplierExists).WithField("name")
	}
	return nil
}

func saveErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return errs.NewConflictError(supplierExists).WithField("name")
	case errors.Is(err, repository.ErrNotFound):
		return errs.NewNotFoundError("Supplier not found")
	}
	return fmt.Errorf("failed to save supplier: %w", err)
}

func (s *supplierService) Create(ctx context.Context, actor authz.Actor, in *models.SupplierInput) (*models.Supplier, error) {
	if err := s.authz.Require(actor, authz.SupplierWrite); err != nil {
		return nil, err
	}
	if err := invalid(validation.Supplier(in)); err != nil {
		return nil, err
	}
	name, err := requireText(in.Name, "name")
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	sup := &models.Supplier{}
	in.Apply(sup)
	sup.Name = name
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, saveErr(err)
	}
	s.log.Info().Int64("supplier_id", sup.ID).Str("name", sup.Name).Msg("Supplier created")
	invalidateStats(ctx, s.stats, s.log)
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, actor authz.Actor, id int64, in *models.SupplierInput) (*models.Supplier, error) {
	if err := s.authz.Require(actor, authz.SupplierWrite); err != nil {
		return nil, err
	}
	if err := invalid(validation.Supplier(in)); err != nil {
		return nil, err
	}
	sup, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, err := requireText(in.Name, "name")
		if err != nil {
			return nil, err
		}
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
	}

	in.Apply(sup)
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, saveErr(err)
	}
	return sup, nil
}

// Delete removes a supplier. Articles that referenced it keep existing
// with no supplier.
func (s *supplierService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if err := s.authz.Require(actor, authz.SupplierDelete); err != nil {
		return err
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return saveErr(err)
	}
	s.log.Info().Int64("supplier_id", id).Msg("Supplier deleted")
	invalidateStats(ctx, s.stats, s.log)
	return nil
}
