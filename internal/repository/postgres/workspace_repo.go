package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id int32) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM workspaces WHERE id = $1`, id)
	return r.scan(row)
}

// GetByUserID retrieves a user's workspace
func (r *WorkspaceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM workspaces WHERE user_id = $1`, userID)
	return r.scan(row)
}

// GetByUserAuth0ID retrieves a user's workspace by the user's Auth0 subject
func (r *WorkspaceRepository) GetByUserAuth0ID(ctx context.Context, auth0ID string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT w.id, w.user_id, w.name, w.created_at, w.updated_at
		FROM workspaces w
		JOIN users u ON u.id = w.user_id
		WHERE u.auth0_id = $1`, auth0ID)
	return r.scan(row)
}

// Create inserts a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO workspaces (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at, updated_at`,
		workspace.UserID, workspace.Name,
	)
	return r.scan(row)
}

// UpdateName renames a workspace
func (r *WorkspaceRepository) UpdateName(ctx context.Context, id int32, name string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE workspaces SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, name, created_at, updated_at`, id, name)
	return r.scan(row)
}

// ClearAllData deletes every site of the workspace; entries and invoices go with them via ON DELETE CASCADE
func (r *WorkspaceRepository) ClearAllData(ctx context.Context, id int32) ([]string, error) {
	var paths []string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT attachment_path FROM invoices
			WHERE workspace_id = $1 AND attachment_path IS NOT NULL`, id)
		if err != nil {
			return err
		}
		paths, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM sites WHERE workspace_id = $1`, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *WorkspaceRepository) scan(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}
