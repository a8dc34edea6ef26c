package usecase

import (
	"context"
	"fmt"
	"net/http"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// 在庫チェックと行の書き込みは同じDBトランザクションで行う。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartItemResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート内容と合計金額を返す。副作用なし。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		resp, err := buildCartResponse(ctx, r, userID)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 加算後の合計が在庫を超えるなら失敗する。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品を行ロック付きで取得
		p, err := r.Products().FindByIDForUpdate(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//既存行があれば加算後の数量で判定する
		candidate := in.Quantity
		existing, err := r.Carts().FindByUserAndProduct(ctx, userID, in.ProductID)
		if err == nil {
			candidate = existing.Quantity + in.Quantity
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if candidate > p.Quantity {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock: %s", p.Name))
		}

		if existing.ID != 0 {
			if err := r.Carts().UpdateQuantity(ctx, existing.ID, candidate); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else {
			if _, err := r.Carts().Create(ctx, model.Cart{
				UserID:    userID,
				ProductID: in.ProductID,
				Quantity:  candidate,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		resp, err := buildCartResponse(ctx, r, userID)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 数量変更（所有チェック＋在庫チェック）。加算ではなく上書き。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		row, err := r.Carts().FindByID(ctx, cartItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人の行は「存在しない扱い」にする
		if row.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		p, err := r.Products().FindByIDForUpdate(ctx, row.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.Quantity > p.Quantity {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock: %s", p.Name))
		}

		if err := r.Carts().UpdateQuantity(ctx, row.ID, in.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		resp, err := buildCartResponse(ctx, r, userID)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細削除。無い行は404。
func (u *CartUsecase) RemoveCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		row, err := r.Carts().FindByID(ctx, cartItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if row.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if err := r.Carts().DeleteByID(ctx, row.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		resp, err := buildCartResponse(ctx, r, userID)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// ユーザーのカート行をまとめてCartResponseを作る。
func buildCartResponse(ctx context.Context, r repo.TxRepos, userID int64) (CartResponse, error) {
	rows, err := r.Carts().ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]CartItemResponse, 0, len(rows))
	var total float64 = 0

	for _, row := range rows {
		p, err := r.Products().FindByID(ctx, row.ProductID)
		if err == repo.ErrNotFound {
			//削除済み商品の行は表示しない
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items = append(items, CartItemResponse{
			ID:        row.ID,
			ProductID: row.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  row.Quantity,
		})

		total += p.Price * float64(row.Quantity)
	}

	return CartResponse{Items: items, Total: total}, nil
}
