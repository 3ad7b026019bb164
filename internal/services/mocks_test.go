package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopmono/shopmono/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockRateLimitRepo struct {
	mock.Mock
}

func (m *mockRateLimitRepo) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context, activeOnly bool) ([]*models.Category, error) {
	args := m.Called(ctx, activeOnly)
	if c := args.Get(0); c != nil {
		return c.([]*models.Category), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCategoryRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) ListProducts(ctx context.Context, query *models.ProductListQuery) ([]*models.Product, int, error) {
	args := m.Called(ctx, query)
	if p := args.Get(0); p != nil {
		return p.([]*models.Product), args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *mockProductRepo) ListFeatured(ctx context.Context, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, limit)
	if p := args.Get(0); p != nil {
		return p.([]*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, categoryID, excludeID, limit)
	if p := args.Get(0); p != nil {
		return p.([]*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, productID, variantID string, quantity int64) error {
	return m.Called(ctx, productID, variantID, quantity).Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*models.Cart), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCartRepo) UpsertCart(ctx context.Context, cart *models.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *mockCartRepo) DeleteCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	args := m.Called(ctx, userID, page, limit)
	if o := args.Get(0); o != nil {
		return o.([]*models.Order), args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *mockOrderRepo) AppendStatus(ctx context.Context, id string, entry models.StatusHistoryEntry) error {
	return m.Called(ctx, id, entry).Error(0)
}

func (m *mockOrderRepo) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, paymentID string) error {
	return m.Called(ctx, id, status, paymentID).Error(0)
}

// fakeCounterRepo hands out strictly increasing sequence values and is
// safe for concurrent use, mirroring the atomic $inc counter document.
type fakeCounterRepo struct {
	mu  sync.Mutex
	seq int64
}

func (f *fakeCounterRepo) Next(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++

	return f.seq, nil
}

// fakeCache is an in-memory stand-in for the Redis JSON cache.
type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]any{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, value any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.store[key]
	if !ok {
		return false, nil
	}

	if p, ok := v.(*models.Product); ok {
		if dest, ok := value.(*models.Product); ok {
			*dest = *p

			return true, nil
		}
	}

	return false, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.store[key] = value

	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.store, key)
	}

	return nil
}
