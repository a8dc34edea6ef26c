package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutFixture() (*CheckoutUsecase, *CartRepoMock, *ProductRepoMock, *TransactionRepoMock, *OrderRepoMock, *InventoryRepoMock) {
	cartRepo := new(CartRepoMock)
	productRepo := new(ProductRepoMock)
	transactionRepo := new(TransactionRepoMock)
	orderRepo := new(OrderRepoMock)
	inventoryRepo := new(InventoryRepoMock)

	txm := &TxManagerMock{Repos: &TxReposMock{
		carts:        cartRepo,
		products:     productRepo,
		transactions: transactionRepo,
		orders:       orderRepo,
		inventory:    inventoryRepo,
	}}
	txm.On("WithinTx", mock.Anything).Return(nil)

	return NewCheckoutUsecase(txm), cartRepo, productRepo, transactionRepo, orderRepo, inventoryRepo
}

func TestCheckoutUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	uc, cartRepo, _, transactionRepo, _, _ := newCheckoutFixture()

	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Cart{}, nil)

	_, err := uc.PlaceOrder(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "cart empty", he.Message)
	transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 2行のうち1行でも在庫不足なら何も書き込まない。
// Transaction作成・在庫減算・Order作成・カート削除のどれも呼ばれないこと。
func TestCheckoutUsecase_PlaceOrder_OneLineInsufficient_NothingApplied(t *testing.T) {
	uc, cartRepo, productRepo, transactionRepo, orderRepo, inventoryRepo := newCheckoutFixture()

	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Cart{
		{ID: 1, UserID: 7, ProductID: 1, Quantity: 2},
		{ID: 2, UserID: 7, ProductID: 2, Quantity: 5},
	}, nil)
	productRepo.On("FindByIDForUpdate", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Apple", Price: 5.0, Quantity: 10}, nil)
	productRepo.On("FindByIDForUpdate", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Banana", Price: 9.0, Quantity: 4}, nil)

	_, err := uc.PlaceOrder(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "insufficient stock: Banana", he.Message)

	transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	inventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

// カートから消えた（削除済み）商品が混ざっていても全体が失敗する。
func TestCheckoutUsecase_PlaceOrder_DeletedProduct_NothingApplied(t *testing.T) {
	uc, cartRepo, productRepo, transactionRepo, _, _ := newCheckoutFixture()

	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Cart{
		{ID: 1, UserID: 7, ProductID: 9, Quantity: 1},
	}, nil)
	productRepo.On("FindByIDForUpdate", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.PlaceOrder(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "product 9 no longer available", he.Message)
	transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_Success_TwoLines(t *testing.T) {
	uc, cartRepo, productRepo, transactionRepo, orderRepo, inventoryRepo := newCheckoutFixture()

	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Cart{
		{ID: 1, UserID: 7, ProductID: 1, Quantity: 2},
		{ID: 2, UserID: 7, ProductID: 2, Quantity: 1},
	}, nil)
	productRepo.On("FindByIDForUpdate", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Apple", Price: 5.0, Quantity: 10}, nil)
	productRepo.On("FindByIDForUpdate", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Banana", Price: 9.0, Quantity: 4}, nil)

	transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(tr model.Transaction) bool {
		return tr.UserID == 7
	})).Return(int64(500), nil)

	inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	inventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(1)).Return(true, nil)

	//単価は確定時点のスナップショット
	orderRepo.On("CreateBulk", mock.Anything, int64(500), []model.Order{
		{ProductID: 1, Quantity: 2, Price: 5.0},
		{ProductID: 2, Quantity: 1, Price: 9.0},
	}).Return(nil)

	cartRepo.On("DeleteByUserID", mock.Anything, int64(7)).Return(nil)

	out, err := uc.PlaceOrder(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(500), out.ID)
	assert.Equal(t, int64(7), out.UserID)
	assert.Len(t, out.Items, 2)
	assert.InDelta(t, 19.0, out.Total, 0.0001)

	transactionRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestCheckoutUsecase_GetMyTransaction_ForeignUser_NotFound(t *testing.T) {
	uc, _, _, transactionRepo, orderRepo, _ := newCheckoutFixture()

	transactionRepo.On("FindByID", mock.Anything, int64(500)).
		Return(model.Transaction{ID: 500, UserID: 99, Datetime: time.Now()}, nil)

	_, err := uc.GetMyTransaction(context.Background(), 7, 500)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "not found", he.Message)
	orderRepo.AssertNotCalled(t, "ListByTransactionID", mock.Anything, mock.Anything)
}

// 削除済み商品の明細は名前が空のまま返る（金額はスナップショット）。
func TestCheckoutUsecase_ListMyTransactions_DeletedProductNameBlank(t *testing.T) {
	uc, _, productRepo, transactionRepo, orderRepo, _ := newCheckoutFixture()

	when := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	transactionRepo.On("ListByUserID", mock.Anything, int64(7)).
		Return([]model.Transaction{{ID: 500, UserID: 7, Datetime: when}}, nil)
	orderRepo.On("ListByTransactionID", mock.Anything, int64(500)).
		Return([]model.Order{{ID: 1, TransactionID: 500, ProductID: 9, Quantity: 2, Price: 3.5}}, nil)
	productRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	outs, err := uc.ListMyTransactions(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, outs, 1)
	assert.Equal(t, "", outs[0].Items[0].Name)
	assert.InDelta(t, 7.0, outs[0].Total, 0.0001)
}
