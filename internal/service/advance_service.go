package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/ledger"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// AdvanceService records cash advances and goods issued on credit
type AdvanceService struct {
	eventSink
	siteRepo    domain.SiteRepository
	advanceRepo domain.AdvanceRepository
}

// NewAdvanceService creates a new AdvanceService
func NewAdvanceService(siteRepo domain.SiteRepository, advanceRepo domain.AdvanceRepository) *AdvanceService {
	return &AdvanceService{siteRepo: siteRepo, advanceRepo: advanceRepo}
}

// CreateAdvanceInput holds the input for recording an advance
type CreateAdvanceInput struct {
	Date          *time.Time
	Amount        decimal.Decimal
	Purpose       domain.AdvancePurpose
	RecipientType domain.RecipientType
	RecipientName string
	Remarks       *string
}

// CreateAdvance records an advance against a site. The purpose must have a ledger classification.
func (s *AdvanceService) CreateAdvance(ctx context.Context, workspaceID, siteID int32, input CreateAdvanceInput) (*domain.Advance, error) {
	if err := positiveAmount(input.Amount); err != nil {
		return nil, err
	}
	if _, err := ledger.Classify(input.Purpose); err != nil {
		return nil, domain.ErrInvalidAdvancePurpose
	}
	if !input.RecipientType.IsValid() {
		return nil, domain.ErrInvalidRecipientType
	}
	recipient, err := requiredText(input.RecipientName, domain.MaxRecipientNameLength, domain.ErrRecipientNameRequired, domain.ErrRecipientNameTooLong)
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

	advance, err := s.advanceRepo.Create(ctx, &domain.Advance{
		WorkspaceID:   workspaceID,
		SiteID:        siteID,
		Date:          entryDate(input.Date),
		Amount:        input.Amount,
		Purpose:       input.Purpose,
		RecipientType: input.RecipientType,
		RecipientName: recipient,
		Remarks:       remarks,
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryCreated(websocket.EntityTypeAdvance, siteID, advance))
	return advance, nil
}

// GetAdvances lists the advances of a site, newest first
func (s *AdvanceService) GetAdvances(ctx context.Context, workspaceID, siteID int32) ([]*domain.Advance, error) {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return nil, err
	}
	return s.advanceRepo.GetBySite(ctx, workspaceID, siteID)
}

// DeleteAdvance removes an advance from a site
func (s *AdvanceService) DeleteAdvance(ctx context.Context, workspaceID, siteID, id int32) error {
	if err := requireSite(ctx, s.siteRepo, workspaceID, siteID); err != nil {
		return err
	}
	if err := s.advanceRepo.Delete(ctx, workspaceID, siteID, id); err != nil {
		return err
	}

	s.publishEntryChange(workspaceID, siteID, websocket.EntryDeleted(websocket.EntityTypeAdvance, siteID, id))
	return nil
}
