package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workspace owns every site of a company or contractor
type Workspace struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceRepository persists workspaces and bulk-clears their data
type WorkspaceRepository interface {
	GetByID(ctx context.Context, id int32) (*Workspace, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Workspace, error)
	GetByUserAuth0ID(ctx context.Context, auth0ID string) (*Workspace, error)
	Create(ctx context.Context, workspace *Workspace) (*Workspace, error)
	UpdateName(ctx context.Context, id int32, name string) (*Workspace, error)
	// ClearAllData removes every site and entry of the workspace, keeping the workspace.
	// It returns the attachment paths of the removed invoices.
	ClearAllData(ctx context.Context, id int32) ([]string, error)
}
