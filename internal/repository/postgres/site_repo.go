package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const siteColumns = `id, workspace_id, name, location, created_at, updated_at, deleted_at`

// SiteRepository implements domain.SiteRepository using PostgreSQL
type SiteRepository struct {
	pool *pgxpool.Pool
}

// NewSiteRepository creates a new SiteRepository
func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

// Create inserts a new site
func (r *SiteRepository) Create(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sites (workspace_id, name, location)
		VALUES ($1, $2, $3)
		RETURNING `+siteColumns,
		site.WorkspaceID, site.Name, site.Location,
	)
	return scanSite(row)
}

// GetByID retrieves a non-deleted site by its ID within a workspace
func (r *SiteRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	site, err := scanSite(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSiteNotFound
	}
	return site, err
}

// GetAllByWorkspace retrieves all non-deleted sites for a workspace ordered by name
func (r *SiteRepository) GetAllByWorkspace(ctx context.Context, workspaceID int32) ([]*domain.Site, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY name, id`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0)
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// Update changes a site's name and location
func (r *SiteRepository) Update(ctx context.Context, workspaceID int32, id int32, name string, location *string) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE sites
		SET name = $3, location = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+siteColumns,
		workspaceID, id, name, location,
	)
	site, err := scanSite(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSiteNotFound
	}
	return site, err
}

// SoftDelete marks a site as deleted. Its ledger entries are kept.
func (r *SiteRepository) SoftDelete(ctx context.Context, workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sites
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSiteNotFound
	}
	return nil
}

func scanSite(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	if err := row.Scan(&s.ID, &s.WorkspaceID, &s.Name, &s.Location, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
