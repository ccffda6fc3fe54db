package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/dafibh/sitebooks/sitebooks-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.AddUser(user)
	return user, nil
}

// UpdateName sets a user's display name
func (m *MockUserRepository) UpdateName(ctx context.Context, auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	user.UpdatedAt = time.Now()
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByUserID      map[uuid.UUID]*domain.Workspace
	ByUserAuth0ID map[string]*domain.Workspace
	NextID        int32
	CreateErr     error
	// ClearFn, when set, backs ClearAllData
	ClearFn func(id int32) ([]string, error)
	Cleared []int32
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:    make(map[int32]*domain.Workspace),
		ByUserID:      make(map[uuid.UUID]*domain.Workspace),
		ByUserAuth0ID: make(map[string]*domain.Workspace),
		NextID:        1,
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserID retrieves a workspace by user ID
func (m *MockWorkspaceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Workspace, error) {
	if ws, ok := m.ByUserID[userID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserAuth0ID retrieves a workspace by user's Auth0 ID
func (m *MockWorkspaceRepository) GetByUserAuth0ID(ctx context.Context, auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Create creates a new workspace
func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	workspace.ID = m.NextID
	m.NextID++
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	return workspace, nil
}

// UpdateName renames a workspace
func (m *MockWorkspaceRepository) UpdateName(ctx context.Context, id int32, name string) (*domain.Workspace, error) {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	ws.Name = name
	ws.UpdatedAt = time.Now()
	return ws, nil
}

// ClearAllData records the call and delegates to ClearFn when set
func (m *MockWorkspaceRepository) ClearAllData(ctx context.Context, id int32) ([]string, error) {
	if _, ok := m.Workspaces[id]; !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	m.Cleared = append(m.Cleared, id)
	if m.ClearFn != nil {
		return m.ClearFn(id)
	}
	return nil, nil
}

// AddWorkspace adds a workspace (helper for tests). auth0ID may be empty.
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace, auth0ID string) {
	m.Workspaces[workspace.ID] = workspace
	m.ByUserID[workspace.UserID] = workspace
	if auth0ID != "" {
		m.ByUserAuth0ID[auth0ID] = workspace
	}
}

// MockSiteRepository is a mock implementation of domain.SiteRepository
type MockSiteRepository struct {
	mu     sync.RWMutex
	Sites  map[int32]*domain.Site
	NextID int32
	// Err, when set, is returned by every method
	Err error
}

// NewMockSiteRepository creates a new MockSiteRepository
func NewMockSiteRepository() *MockSiteRepository {
	return &MockSiteRepository{
		Sites:  make(map[int32]*domain.Site),
		NextID: 1,
	}
}

// Create creates a new site
func (m *MockSiteRepository) Create(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	site.ID = m.NextID
	m.NextID++
	site.CreatedAt = time.Now()
	site.UpdatedAt = site.CreatedAt
	m.Sites[site.ID] = site
	return site, nil
}

// GetByID retrieves a live site by ID within a workspace
func (m *MockSiteRepository) GetByID(ctx context.Context, workspaceID int32, id int32) (*domain.Site, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	site, ok := m.Sites[id]
	if !ok || site.WorkspaceID != workspaceID || site.DeletedAt != nil {
		return nil, domain.ErrSiteNotFound
	}
	return site, nil
}

// GetAllByWorkspace retrieves all live sites of a workspace ordered by name
func (m *MockSiteRepository) GetAllByWorkspace(ctx context.Context, workspaceID int32) ([]*domain.Site, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Site, 0)
	for _, site := range m.Sites {
		if site.WorkspaceID == workspaceID && site.DeletedAt == nil {
			result = append(result, site)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update updates a site's name and location
func (m *MockSiteRepository) Update(ctx context.Context, workspaceID int32, id int32, name string, location *string) (*domain.Site, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.Sites[id]
	if !ok || site.WorkspaceID != workspaceID || site.DeletedAt != nil {
		return nil, domain.ErrSiteNotFound
	}
	site.Name = name
	site.Location = location
	site.UpdatedAt = time.Now()
	return site, nil
}

// SoftDelete marks a site deleted
func (m *MockSiteRepository) SoftDelete(ctx context.Context, workspaceID int32, id int32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.Sites[id]
	if !ok || site.WorkspaceID != workspaceID || site.DeletedAt != nil {
		return domain.ErrSiteNotFound
	}
	now := time.Now()
	site.DeletedAt = &now
	return nil
}

// AddSite adds a site to the mock repository (helper for tests)
func (m *MockSiteRepository) AddSite(site *domain.Site) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sites[site.ID] = site
	if site.ID >= m.NextID {
		m.NextID = site.ID + 1
	}
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	mu       sync.RWMutex
	Expenses map[int32]*domain.Expense
	NextID   int32
	Err      error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	expense.ID = m.NextID
	m.NextID++
	expense.CreatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetBySite retrieves the expenses of a site, newest first
func (m *MockExpenseRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if e.WorkspaceID == workspaceID && e.SiteID == siteID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].Date, result[i].ID, result[j].Date, result[j].ID)
	})
	return result, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	if !ok || e.WorkspaceID != workspaceID || e.SiteID != siteID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == 0 {
		expense.ID = m.NextID
	}
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

// MockAdvanceRepository is a mock implementation of domain.AdvanceRepository
type MockAdvanceRepository struct {
	mu       sync.RWMutex
	Advances map[int32]*domain.Advance
	NextID   int32
	Err      error
}

// NewMockAdvanceRepository creates a new MockAdvanceRepository
func NewMockAdvanceRepository() *MockAdvanceRepository {
	return &MockAdvanceRepository{
		Advances: make(map[int32]*domain.Advance),
		NextID:   1,
	}
}

// Create creates a new advance
func (m *MockAdvanceRepository) Create(ctx context.Context, advance *domain.Advance) (*domain.Advance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	advance.ID = m.NextID
	m.NextID++
	advance.CreatedAt = time.Now()
	m.Advances[advance.ID] = advance
	return advance, nil
}

// GetBySite retrieves the advances of a site, newest first
func (m *MockAdvanceRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Advance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Advance, 0)
	for _, a := range m.Advances {
		if a.WorkspaceID == workspaceID && a.SiteID == siteID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].Date, result[i].ID, result[j].Date, result[j].ID)
	})
	return result, nil
}

// Delete removes an advance
func (m *MockAdvanceRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Advances[id]
	if !ok || a.WorkspaceID != workspaceID || a.SiteID != siteID {
		return domain.ErrAdvanceNotFound
	}
	delete(m.Advances, id)
	return nil
}

// AddAdvance adds an advance to the mock repository (helper for tests)
func (m *MockAdvanceRepository) AddAdvance(advance *domain.Advance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if advance.ID == 0 {
		advance.ID = m.NextID
	}
	m.Advances[advance.ID] = advance
	if advance.ID >= m.NextID {
		m.NextID = advance.ID + 1
	}
}

// MockFundsRepository is a mock implementation of domain.FundsRepository
type MockFundsRepository struct {
	mu     sync.RWMutex
	Funds  map[int32]*domain.FundsReceived
	NextID int32
	Err    error
}

// NewMockFundsRepository creates a new MockFundsRepository
func NewMockFundsRepository() *MockFundsRepository {
	return &MockFundsRepository{
		Funds:  make(map[int32]*domain.FundsReceived),
		NextID: 1,
	}
}

// Create records funds received
func (m *MockFundsRepository) Create(ctx context.Context, funds *domain.FundsReceived) (*domain.FundsReceived, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	funds.ID = m.NextID
	m.NextID++
	funds.CreatedAt = time.Now()
	m.Funds[funds.ID] = funds
	return funds, nil
}

// GetBySite retrieves the funds received by a site, newest first
func (m *MockFundsRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.FundsReceived, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FundsReceived, 0)
	for _, f := range m.Funds {
		if f.WorkspaceID == workspaceID && f.SiteID == siteID {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].Date, result[i].ID, result[j].Date, result[j].ID)
	})
	return result, nil
}

// Delete removes a funds entry
func (m *MockFundsRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.Funds[id]
	if !ok || f.WorkspaceID != workspaceID || f.SiteID != siteID {
		return domain.ErrFundsNotFound
	}
	delete(m.Funds, id)
	return nil
}

// AddFunds adds a funds entry to the mock repository (helper for tests)
func (m *MockFundsRepository) AddFunds(funds *domain.FundsReceived) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if funds.ID == 0 {
		funds.ID = m.NextID
	}
	m.Funds[funds.ID] = funds
	if funds.ID >= m.NextID {
		m.NextID = funds.ID + 1
	}
}

// MockInvoiceRepository is a mock implementation of domain.InvoiceRepository
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	Invoices map[int32]*domain.Invoice
	NextID   int32
	Err      error
}

// NewMockInvoiceRepository creates a new MockInvoiceRepository
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		Invoices: make(map[int32]*domain.Invoice),
		NextID:   1,
	}
}

// Create creates a new invoice
func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Invoices {
		if existing.SiteID == invoice.SiteID && existing.VendorName == invoice.VendorName && existing.InvoiceNumber == invoice.InvoiceNumber {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
	}
	invoice.ID = m.NextID
	m.NextID++
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	m.Invoices[invoice.ID] = invoice
	return invoice, nil
}

func (m *MockInvoiceRepository) find(workspaceID, siteID, id int32) (*domain.Invoice, error) {
	inv, ok := m.Invoices[id]
	if !ok || inv.WorkspaceID != workspaceID || inv.SiteID != siteID {
		return nil, domain.ErrInvoiceNotFound
	}
	return inv, nil
}

// GetByID retrieves an invoice of a site
func (m *MockInvoiceRepository) GetByID(ctx context.Context, workspaceID int32, siteID int32, id int32) (*domain.Invoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(workspaceID, siteID, id)
}

// GetBySite retrieves the invoices of a site, newest first
func (m *MockInvoiceRepository) GetBySite(ctx context.Context, workspaceID int32, siteID int32) ([]*domain.Invoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Invoice, 0)
	for _, inv := range m.Invoices {
		if inv.WorkspaceID == workspaceID && inv.SiteID == siteID {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].Date, result[i].ID, result[j].Date, result[j].ID)
	})
	return result, nil
}

// UpdatePaymentStatus sets the payment status of an invoice
func (m *MockInvoiceRepository) UpdatePaymentStatus(ctx context.Context, workspaceID int32, siteID int32, id int32, status domain.PaymentStatus) (*domain.Invoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, err := m.find(workspaceID, siteID, id)
	if err != nil {
		return nil, err
	}
	inv.PaymentStatus = status
	inv.UpdatedAt = time.Now()
	return inv, nil
}

// SetAttachment stores or clears the attachment path of an invoice
func (m *MockInvoiceRepository) SetAttachment(ctx context.Context, workspaceID int32, siteID int32, id int32, path *string) (*domain.Invoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, err := m.find(workspaceID, siteID, id)
	if err != nil {
		return nil, err
	}
	inv.AttachmentPath = path
	inv.UpdatedAt = time.Now()
	return inv, nil
}

// Delete removes an invoice
func (m *MockInvoiceRepository) Delete(ctx context.Context, workspaceID int32, siteID int32, id int32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.find(workspaceID, siteID, id); err != nil {
		return err
	}
	delete(m.Invoices, id)
	return nil
}

// AddInvoice adds an invoice to the mock repository (helper for tests)
func (m *MockInvoiceRepository) AddInvoice(invoice *domain.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if invoice.ID == 0 {
		invoice.ID = m.NextID
	}
	m.Invoices[invoice.ID] = invoice
	if invoice.ID >= m.NextID {
		m.NextID = invoice.ID + 1
	}
}

func newerFirst(dateA time.Time, idA int32, dateB time.Time, idB int32) bool {
	if !dateA.Equal(dateB) {
		return dateA.After(dateB)
	}
	return idA > idB
}

// MockObjectStore is an in-memory storage.ObjectStore
type MockObjectStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Deleted   []string
	UploadErr error
	// FailAfter makes the Nth and later uploads fail when > 0
	FailAfter int
	uploads   int
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{Objects: make(map[string][]byte)}
}

// Upload stores the object and returns its mock URL
func (m *MockObjectStore) Upload(ctx context.Context, path string, reader io.Reader, contentType string, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	if m.FailAfter > 0 && m.uploads >= m.FailAfter {
		return "", fmt.Errorf("upload %d failed", m.uploads)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	m.Objects[path] = buf.Bytes()
	return "mock://" + path, nil
}

// Delete removes the object
func (m *MockObjectStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, path)
	m.Deleted = append(m.Deleted, path)
	return nil
}

// GeneratePresignedURL returns a deterministic fake URL
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", path, int(expiry.Seconds())), nil
}

// Paths returns the stored object paths, sorted
func (m *MockObjectStore) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.Objects))
	for p := range m.Objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is a recorded call to Publish
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Types returns the recorded event types in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
