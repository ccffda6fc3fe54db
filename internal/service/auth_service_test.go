package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

func TestAuthenticateUser_NewUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	service := NewAuthService(userRepo, workspaceRepo)

	auth0ID := "auth0|12345"
	email := "foreman@example.com"
	name := "Site Foreman"

	result, err := service.AuthenticateUser(context.Background(), auth0ID, email, &name, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}
	if result.User.Auth0ID != auth0ID {
		t.Errorf("Expected auth0ID %s, got %s", auth0ID, result.User.Auth0ID)
	}
	if result.User.Email != email {
		t.Errorf("Expected email %s, got %s", email, result.User.Email)
	}
	if result.Workspace == nil {
		t.Fatal("Expected workspace, got nil")
	}
	if result.Workspace.Name != DefaultWorkspaceName {
		t.Errorf("Expected workspace name %q, got %s", DefaultWorkspaceName, result.Workspace.Name)
	}
}

func TestAuthenticateUser_ExistingUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	service := NewAuthService(userRepo, workspaceRepo)

	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|existing", Email: "a@example.com"}
	userRepo.AddUser(user)
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 7, UserID: user.ID, Name: "Contractor"}, user.Auth0ID)

	result, err := service.AuthenticateUser(context.Background(), user.Auth0ID, user.Email, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.IsNewUser {
		t.Error("Expected IsNewUser to be false for existing user")
	}
	if result.Workspace.ID != 7 {
		t.Errorf("Expected workspace 7, got %d", result.Workspace.ID)
	}
}

func TestAuthenticateUser_WorkspaceCreateFails(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.CreateErr = errors.New("db down")
	service := NewAuthService(userRepo, workspaceRepo)

	_, err := service.AuthenticateUser(context.Background(), "auth0|x", "x@example.com", nil, nil)
	if err == nil {
		t.Fatal("Expected error when workspace creation fails")
	}
}

func TestGetWorkspaceByAuth0ID(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 3, UserID: uuid.New()}, "auth0|abc")
	service := NewAuthService(testutil.NewMockUserRepository(), workspaceRepo)

	ws, err := service.GetWorkspaceByAuth0ID(context.Background(), "auth0|abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ws.ID != 3 {
		t.Errorf("Expected workspace 3, got %d", ws.ID)
	}

	_, err = service.GetWorkspaceByAuth0ID(context.Background(), "auth0|missing")
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got %v", err)
	}
}
