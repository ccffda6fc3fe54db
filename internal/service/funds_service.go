package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// FundsService records money credited to a site
type FundsService struct {
	eventSink
	siteRepo  domain.SiteRepository
	fundsRepo domain.FundsRepository
}

// NewFundsService creates a new FundsService
func NewFundsService(siteRepo domain.SiteRepository, fundsRepo domain.FundsRepository) *FundsService {
	return &FundsService{siteRepo: siteRepo, fundsRepo: fundsRepo}
}

// CreateFundsInput holds the input for recording funds received
type CreateFundsInput struct {
	Date    *time.Time
	Amount  decimal.Decimal
	Source  *string
	Remarks *string
}

// CreateFunds records funds received by a site
func (s *FundsService) CreateFunds(ctx context.Context, workspaceID, siteID int32, input CreateFundsInput) (*domain.FundsReceived, error) {
	if err := positiveAmount(input.Amount); err != nil {
		return nil, err
	}
	source, err := optionalText(input.Source, domain.MaxSourceLength, domain.ErrSourceTooLong)
	if err != nil {
		return nil, err
	}
	remarks, err := optionalText(input.Remarks, domain.MaxRemarksLength, domain.ErrRemarksTooLong)
	if err != nil {
		return nil, err
	}
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}

	funds, err := s.fundsRepo.Create(ctx, &domain.FundsReceived{
		WorkspaceID: workspaceID,
		SiteID:      siteID,
		Date:        entryDate(input.Date),
		Amount:      input.Amount,
		Source:      source,
		Remarks:     remarks,
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryCreated(websocket.EntityTypeFunds, siteID, funds))
	return funds, nil
}

// GetFunds lists the funds received by a site, newest first
func (s *FundsService) GetFunds(ctx context.Context, workspaceID, siteID int32) ([]*domain.FundsReceived, error) {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}
	return s.fundsRepo.GetBySite(ctx, workspaceID, siteID)
}

// DeleteFunds removes a funds entry from a site
func (s *FundsService) DeleteFunds(ctx context.Context, workspaceID, siteID, id int32) error {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return err
	}
	if err := s.fundsRepo.Delete(ctx, workspaceID, siteID, id); err != nil {
		return err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryDeleted(websocket.EntityTypeFunds, siteID, id))
	return nil
}
