package domain

import (
	"context"
	"time"
)

// Site is a construction site whose money movements are tracked
type Site struct {
	ID          int32      `json:"id"`
	WorkspaceID int32      `json:"workspaceId"`
	Name        string     `json:"name"`
	Location    *string    `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type SiteRepository interface {
	Create(ctx context.Context, site *Site) (*Site, error)
	GetByID(ctx context.Context, workspaceID int32, id int32) (*Site, error)
	GetAllByWorkspace(ctx context.Context, workspaceID int32) ([]*Site, error)
	Update(ctx context.Context, workspaceID int32, id int32, name string, location *string) (*Site, error)
	SoftDelete(ctx context.Context, workspaceID int32, id int32) error
}
