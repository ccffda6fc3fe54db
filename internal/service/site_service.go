package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// SiteService handles site-related business logic
type SiteService struct {
	eventSink
	siteRepo domain.SiteRepository
}

// NewSiteService creates a new SiteService
func NewSiteService(siteRepo domain.SiteRepository) *SiteService {
	return &SiteService{siteRepo: siteRepo}
}

// SiteInput holds the editable fields of a site
type SiteInput struct {
	Name     string
	Location *string
}

func (in SiteInput) normalize() (string, *string, error) {
	name, err := requiredText(in.Name, domain.MaxSiteNameLength, domain.ErrNameRequired, domain.ErrNameTooLong)
	if err != nil {
		return "", nil, err
	}
	location, err := optionalText(in.Location, domain.MaxLocationLength, domain.ErrLocationTooLong)
	if err != nil {
		return "", nil, err
	}
	return name, location, nil
}

// CreateSite creates a new site in the workspace
func (s *SiteService) CreateSite(ctx context.Context, workspaceID int32, input SiteInput) (*domain.Site, error) {
	name, location, err := input.normalize()
	if err != nil {
		return nil, err
	}

	site, err := s.siteRepo.Create(ctx, &domain.Site{
		WorkspaceID: workspaceID,
		Name:        name,
		Location:    location,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("site_id", site.ID).Msg("Site created")
	s.publishEvent(workspaceID, websocket.EntryCreated(websocket.EntityTypeSite, site.ID, site))
	return site, nil
}

// GetSites retrieves all live sites of a workspace
func (s *SiteService) GetSites(ctx context.Context, workspaceID int32) ([]*domain.Site, error) {
	return s.siteRepo.GetAllByWorkspace(ctx, workspaceID)
}

// GetSite retrieves a site by ID within a workspace
func (s *SiteService) GetSite(ctx context.Context, workspaceID, id int32) (*domain.Site, error) {
	return s.siteRepo.GetByID(ctx, workspaceID, id)
}

// UpdateSite replaces a site's name and location
func (s *SiteService) UpdateSite(ctx context.Context, workspaceID, id int32, input SiteInput) (*domain.Site, error) {
	name, location, err := input.normalize()
	if err != nil {
		return nil, err
	}

	site, err := s.siteRepo.Update(ctx, workspaceID, id, name, location)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.EntryUpdated(websocket.EntityTypeSite, site.ID, site))
	return site, nil
}

// DeleteSite soft-deletes a site. Its entries are kept but no longer reachable through the API.
func (s *SiteService) DeleteSite(ctx context.Context, workspaceID, id int32) error {
	if err := s.siteRepo.SoftDelete(ctx, workspaceID, id); err != nil {
		return err
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("site_id", id).Msg("Site deleted")
	s.publishEvent(workspaceID, websocket.EntryDeleted(websocket.EntityTypeSite, id, id))
	return nil
}
