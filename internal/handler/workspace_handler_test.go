package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/service"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/testutil"
)

func workspaceFixture() (*testutil.MockWorkspaceRepository, *WorkspaceHandler) {
	workspaces := testutil.NewMockWorkspaceRepository()
	workspaces.AddWorkspace(&domain.Workspace{ID: testWorkspaceID, Name: service.DefaultWorkspaceName}, testAuth0ID)
	return workspaces, NewWorkspaceHandler(service.NewWorkspaceService(workspaces))
}

func TestGetWorkspace(t *testing.T) {
	_, h := workspaceFixture()
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/workspace", "", testWorkspaceID)

	require.NoError(t, h.GetWorkspace(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp WorkspaceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testWorkspaceID, resp.ID)
	assert.Equal(t, service.DefaultWorkspaceName, resp.Name)
}

func TestGetWorkspace_MissingWorkspace(t *testing.T) {
	_, h := workspaceFixture()
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/workspace", "", 0)

	require.NoError(t, h.GetWorkspace(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRenameWorkspace(t *testing.T) {
	workspaces, h := workspaceFixture()
	c, rec := newRequestContext(t, http.MethodPut, "/api/v1/workspace", `{"name":"PT Karya Beton"}`, testWorkspaceID)

	require.NoError(t, h.RenameWorkspace(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PT Karya Beton", workspaces.Workspaces[testWorkspaceID].Name)

	c, rec = newRequestContext(t, http.MethodPut, "/api/v1/workspace", `{"name":" "}`, testWorkspaceID)
	require.NoError(t, h.RenameWorkspace(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decodeProblem(t, rec).Errors[0].Field)
}

func TestClearAllData(t *testing.T) {
	workspaces, h := workspaceFixture()
	c, rec := newRequestContext(t, http.MethodDelete, "/api/v1/workspace/data", "", testWorkspaceID)

	require.NoError(t, h.ClearAllData(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int32{testWorkspaceID}, workspaces.Cleared)
}

func TestClearAllData_Failure(t *testing.T) {
	workspaces, h := workspaceFixture()
	workspaces.ClearFn = func(id int32) ([]string, error) { return nil, errors.New("connection reset") }
	c, rec := newRequestContext(t, http.MethodDelete, "/api/v1/workspace/data", "", testWorkspaceID)

	require.NoError(t, h.ClearAllData(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to clear workspace data", decodeProblem(t, rec).Detail)
}
