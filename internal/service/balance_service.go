package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/ledger"
)

// maxConcurrentSites bounds the per-site fan-out of GetWorkspaceSummaries
const maxConcurrentSites = 4

// BalanceService derives site balances from the stored ledger entries
type BalanceService struct {
	siteRepo    domain.SiteRepository
	expenseRepo domain.ExpenseRepository
	advanceRepo domain.AdvanceRepository
	fundsRepo   domain.FundsRepository
	invoiceRepo domain.InvoiceRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	siteRepo domain.SiteRepository,
	expenseRepo domain.ExpenseRepository,
	advanceRepo domain.AdvanceRepository,
	fundsRepo domain.FundsRepository,
	invoiceRepo domain.InvoiceRepository,
) *BalanceService {
	return &BalanceService{
		siteRepo:    siteRepo,
		expenseRepo: expenseRepo,
		advanceRepo: advanceRepo,
		fundsRepo:   fundsRepo,
		invoiceRepo: invoiceRepo,
	}
}

// GetSiteSummary computes the balance of one site
func (s *BalanceService) GetSiteSummary(ctx context.Context, workspaceID, siteID int32) (*domain.SiteBalance, error) {
	site, err := s.siteRepo.GetByID(ctx, workspaceID, siteID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, site)
}

// GetWorkspaceSummaries computes the balance of every live site in the workspace, ordered like the site list
func (s *BalanceService) GetWorkspaceSummaries(ctx context.Context, workspaceID int32) ([]*domain.SiteBalance, error) {
	sites, err := s.siteRepo.GetAllByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.SiteBalance, len(sites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSites)
	for i, site := range sites {
		g.Go(func() error {
			balance, err := s.summarize(gctx, site)
			if err != nil {
				return err
			}
			results[i] = balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize loads the four entry collections of a site concurrently and aggregates them
func (s *BalanceService) summarize(ctx context.Context, site *domain.Site) (*domain.SiteBalance, error) {
	var in ledger.Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		in.Expenses, err = s.expenseRepo.GetBySite(gctx, site.WorkspaceID, site.ID)
		return err
	})
	g.Go(func() error {
		var err error
		in.Advances, err = s.advanceRepo.GetBySite(gctx, site.WorkspaceID, site.ID)
		return err
	})
	g.Go(func() error {
		var err error
		in.Funds, err = s.fundsRepo.GetBySite(gctx, site.WorkspaceID, site.ID)
		return err
	})
	g.Go(func() error {
		invoices, err := s.invoiceRepo.GetBySite(gctx, site.WorkspaceID, site.ID)
		in.Invoices = ledger.SupervisorInvoices(invoices)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load entries for site %d: %w", site.ID, err)
	}

	summary, err := ledger.Summarize(in)
	if err != nil {
		log.Error().
			Err(err).
			Int32("workspace_id", site.WorkspaceID).
			Int32("site_id", site.ID).
			Msg("Failed to summarize site ledger")
		return nil, err
	}

	return &domain.SiteBalance{Site: site, Summary: summary}, nil
}
