package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// WorkspaceService handles workspace-related business logic
type WorkspaceService struct {
	eventSink
	workspaceRepo domain.WorkspaceRepository
	attachments   *AttachmentService
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// SetAttachmentService lets ClearAllData remove stored invoice scans
func (s *WorkspaceService) SetAttachmentService(attachments *AttachmentService) {
	s.attachments = attachments
}

// GetWorkspace retrieves a workspace by ID
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id)
}

// RenameWorkspace changes the workspace name, typically to the contractor's company name
func (s *WorkspaceService) RenameWorkspace(ctx context.Context, id int32, name string) (*domain.Workspace, error) {
	name, err := requiredText(name, domain.MaxWorkspaceNameLength, domain.ErrNameRequired, domain.ErrNameTooLong)
	if err != nil {
		return nil, err
	}
	return s.workspaceRepo.UpdateName(ctx, id, name)
}

// ClearAllData deletes every site, entry and invoice of a workspace but keeps the workspace itself.
// Invoice scans are removed from object storage on a best-effort basis.
func (s *WorkspaceService) ClearAllData(ctx context.Context, workspaceID int32) error {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
		return err
	}

	paths, err := s.workspaceRepo.ClearAllData(ctx, workspaceID)
	if err != nil {
		return err
	}

	if s.attachments.IsEnabled() {
		for _, path := range paths {
			if err := s.attachments.DeleteVariants(ctx, path); err != nil {
				log.Warn().Err(err).Int32("workspace_id", workspaceID).Str("path", path).Msg("Failed to remove invoice scan")
			}
		}
	}

	log.Info().Int32("workspace_id", workspaceID).Int("scans", len(paths)).Msg("Workspace data cleared")
	s.publishEvent(workspaceID, websocket.BalanceChanged(0))
	return nil
}
