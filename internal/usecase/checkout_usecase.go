package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"
)

// CheckoutUsecase はカートをTransaction+Orderへ確定する。
type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

type OrderLineOutput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type TransactionOutput struct {
	ID       int64             `json:"id"`
	UserID   int64             `json:"user_id"`
	Datetime time.Time         `json:"datetime"`
	Total    float64           `json:"total"`
	Items    []OrderLineOutput `json:"items"`
}

// PlaceOrder はカート全行を1つのTransactionに確定する。
// 全行の検証が通ってから書き込む。途中で失敗したら全部ロールバック。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64) (TransactionOutput, error) {
	if userID <= 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Carts().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(rows) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//先に全行を現在の在庫で検証する。商品は行ロックして
		//検証と減算の間に他のチェックアウトを入れない。
		products := make(map[int64]model.Product, len(rows))
		for _, row := range rows {
			p, err := r.Products().FindByIDForUpdate(ctx, row.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("product %d no longer available", row.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if row.Quantity > p.Quantity {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock: %s", p.Name))
			}
			products[row.ProductID] = p
		}

		//全行OKなので適用フェーズへ
		now := time.Now()
		transactionID, err := r.Transactions().Create(ctx, model.Transaction{
			UserID:   userID,
			Datetime: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines := make([]model.Order, 0, len(rows))
		outItems := make([]OrderLineOutput, 0, len(rows))
		var total float64 = 0

		for _, row := range rows {
			p := products[row.ProductID]

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, row.ProductID, row.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock: %s", p.Name))
			}

			//単価は現在値のスナップショット
			lines = append(lines, model.Order{
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				Price:     p.Price,
			})
			outItems = append(outItems, OrderLineOutput{
				ProductID: row.ProductID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  row.Quantity,
			})
			total += p.Price * float64(row.Quantity)
		}

		if err := r.Orders().CreateBulk(ctx, transactionID, lines); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//消費したカート行を削除
		if err := r.Carts().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = TransactionOutput{
			ID:       transactionID,
			UserID:   userID,
			Datetime: now,
			Total:    total,
			Items:    outItems,
		}
		return nil
	})

	if err != nil {
		return TransactionOutput{}, err
	}
	return out, nil
}

// ListMyTransactions は注文履歴（新しい順）。
func (u *CheckoutUsecase) ListMyTransactions(ctx context.Context, userID int64) ([]TransactionOutput, error) {
	if userID <= 0 {
		return []TransactionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ts, err := r.Transactions().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]TransactionOutput, 0, len(ts))
		for _, t := range ts {
			o, err := buildTransactionOutput(ctx, r, t)
			if err != nil {
				return err
			}
			outs = append(outs, o)
		}
		return nil
	})

	if err != nil {
		return []TransactionOutput{}, err
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyTransaction(ctx context.Context, userID int64, transactionID int64) (TransactionOutput, error) {
	if userID <= 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if transactionID <= 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		t, err := r.Transactions().FindByID(ctx, transactionID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人の注文は「存在しない扱い」にする
		if t.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		o, err := buildTransactionOutput(ctx, r, t)
		if err != nil {
			return err
		}
		out = o
		return nil
	})

	if err != nil {
		return TransactionOutput{}, err
	}
	return out, nil
}

// 明細を読み出してTransactionOutputを組み立てる。
// 商品名は現在の商品から引く。削除済みなら空のまま返す。
func buildTransactionOutput(ctx context.Context, r repo.TxRepos, t model.Transaction) (TransactionOutput, error) {
	items, err := r.Orders().ListByTransactionID(ctx, t.ID)
	if err != nil {
		return TransactionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outItems := make([]OrderLineOutput, 0, len(items))
	var total float64 = 0

	for _, it := range items {
		name := ""
		if p, err := r.Products().FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
		}

		outItems = append(outItems, OrderLineOutput{
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		total += it.Price * float64(it.Quantity)
	}

	return TransactionOutput{
		ID:       t.ID,
		UserID:   t.UserID,
		Datetime: t.Datetime,
		Total:    total,
		Items:    outItems,
	}, nil
}
