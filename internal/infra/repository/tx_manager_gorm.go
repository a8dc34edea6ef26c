package repository

import (
	"context"

	repo "grocerystore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users        repo.UserRepository
	categories   repo.CategoryRepository
	products     repo.ProductRepository
	carts        repo.CartRepository
	transactions repo.TransactionRepository
	orders       repo.OrderRepository
	inventory    repo.InventoryRepository
	sessions     repo.SessionRepository
}

func (r *txReposGorm) Users() repo.UserRepository               { return r.users }
func (r *txReposGorm) Categories() repo.CategoryRepository      { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) Carts() repo.CartRepository               { return r.carts }
func (r *txReposGorm) Transactions() repo.TransactionRepository { return r.transactions }
func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *txReposGorm) Sessions() repo.SessionRepository         { return r.sessions }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したら全体をロールバックする
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:        NewUserGormRepository(tx),
			categories:   NewCategoryGormRepository(tx),
			products:     NewProductGormRepository(tx),
			carts:        NewCartGormRepository(tx),
			transactions: NewTransactionGormRepository(tx),
			orders:       NewOrderGormRepository(tx),
			inventory:    NewInventoryGormRepository(tx),
			sessions:     NewSessionGormRepository(tx),
		}
		return fn(r)
	})
}
