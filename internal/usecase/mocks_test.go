package usecase

import (
	"context"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す。
// fnがエラーを返せば実装側ではrollbackされる（ここでは単にエラーを返す）。
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	//呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	users        repo.UserRepository
	categories   repo.CategoryRepository
	products     repo.ProductRepository
	carts        repo.CartRepository
	transactions repo.TransactionRepository
	orders       repo.OrderRepository
	inventory    repo.InventoryRepository
	sessions     repo.SessionRepository
}

func (r *TxReposMock) Users() repo.UserRepository               { return r.users }
func (r *TxReposMock) Categories() repo.CategoryRepository      { return r.categories }
func (r *TxReposMock) Products() repo.ProductRepository         { return r.products }
func (r *TxReposMock) Carts() repo.CartRepository               { return r.carts }
func (r *TxReposMock) Transactions() repo.TransactionRepository { return r.transactions }
func (r *TxReposMock) Orders() repo.OrderRepository             { return r.orders }
func (r *TxReposMock) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *TxReposMock) Sessions() repo.SessionRepository         { return r.sessions }

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListIDsByCategoryID(ctx context.Context, categoryID int64) ([]int64, error) {
	args := m.Called(ctx, categoryID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) DeleteByCategoryID(ctx context.Context, categoryID int64) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Cart, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]model.Cart)
	return rows, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	args := m.Called(ctx, userID, productID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Create(ctx context.Context, c model.Cart) (model.Cart, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Cart)
	return out, args.Error(1)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, cartID int64, qty int64) error {
	args := m.Called(ctx, cartID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByID(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteByProductIDs(ctx context.Context, productIDs []int64) error {
	args := m.Called(ctx, productIDs)
	return args.Error(0)
}

type TransactionRepoMock struct{ mock.Mock }

func (m *TransactionRepoMock) Create(ctx context.Context, t model.Transaction) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransactionRepoMock) FindByID(ctx context.Context, transactionID int64) (model.Transaction, error) {
	args := m.Called(ctx, transactionID)
	t, _ := args.Get(0).(model.Transaction)
	return t, args.Error(1)
}

func (m *TransactionRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Transaction, error) {
	args := m.Called(ctx, userID)
	ts, _ := args.Get(0).([]model.Transaction)
	return ts, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) CreateBulk(ctx context.Context, transactionID int64, items []model.Order) error {
	args := m.Called(ctx, transactionID, items)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.Order, error) {
	args := m.Called(ctx, transactionID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, s *model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepoMock) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Revoke(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}
