package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/verification"
)

// memStore is an in-memory UserStore, PhoneNumberStore, AddressStore and
// verification.Store.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	phones    map[string]*models.PhoneNumber
	addresses map[uuid.UUID]*models.Address
	profiles  int
	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*models.User{},
		phones:    map[string]*models.PhoneNumber{},
		addresses: map[uuid.UUID]*models.Address{},
	}
}

func (m *memStore) Create(_ context.Context, user *models.User, phone *models.PhoneNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}

	user.ID = uuid.New()
	user.Profile = &models.Profile{UserID: user.ID}
	if phone != nil {
		phone.ID = uuid.New()
		phone.UserID = user.ID
		user.Phone = phone
		m.phones[phone.Number] = phone
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.EmailAddress(), email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FindByPhoneNumber(_ context.Context, number string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.phones[number]; ok {
		return m.users[p.UserID], nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FindByConfirmationKey(_ context.Context, key string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.EmailConfirmationKey == key {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *memStore) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) SaveProfile(_ context.Context, _ *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles++
	return nil
}

func (m *memStore) FindByNumber(_ context.Context, number string) (*models.PhoneNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.phones[number]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) NumberExists(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.phones[number]
	return ok, nil
}

func (m *memStore) SavePhoneNumber(_ context.Context, rec *models.PhoneNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones[rec.Number] = rec
	return nil
}

// memAddresses adapts memStore to AddressStore.
type memAddresses struct{ *memStore }

func (m memAddresses) List(_ context.Context, userID uuid.UUID, kind models.AddressType) ([]models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Address
	for _, a := range m.addresses {
		if a.UserID == userID && a.AddressType == kind {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m memAddresses) Find(_ context.Context, id, userID uuid.UUID, kind models.AddressType) (*models.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID || a.AddressType != kind {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (m memAddresses) Create(_ context.Context, address *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	address.ID = uuid.New()
	m.addresses[address.ID] = address
	return nil
}

func (m memAddresses) Update(_ context.Context, address *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[address.ID] = address
	return nil
}

func (m memAddresses) Delete(_ context.Context, address *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.addresses, address.ID)
	return nil
}

type sentMail struct {
	Subject, Message, To string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (r *recordingMailer) SendEmail(subject, message, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{subject, message, to})
}

func (r *recordingMailer) Sent() []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMail(nil), r.sent...)
}

// smsInbox captures texts handed to the gateway.
type smsInbox struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (g *smsInbox) Send(_ context.Context, _, _, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.bodies = append(g.bodies, body)
	return nil
}

func (g *smsInbox) lastCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.bodies) == 0 {
		return ""
	}
	return strings.TrimPrefix(g.bodies[len(g.bodies)-1], "Your verification code is ")
}

type MockVerifier struct{ mock.Mock }

func (m *MockVerifier) Send(ctx context.Context, rec *models.PhoneNumber) (verification.SendResult, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(verification.SendResult), args.Error(1)
}

func (m *MockVerifier) Check(ctx context.Context, rec *models.PhoneNumber, code string) error {
	args := m.Called(ctx, rec, code)
	return args.Error(0)
}

type MockProductStore struct{ mock.Mock }

func (m *MockProductStore) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductStore) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ProductCategory), args.Error(1)
}

func (m *MockProductStore) FindCategory(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductCategory), args.Error(1)
}
