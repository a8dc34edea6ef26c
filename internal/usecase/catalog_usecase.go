package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// CatalogUsecase はカテゴリ・商品のCRUDと検索。
// 変更系は管理者のみ（ルート側でもAdminRoleGuardが掛かる）。
type CatalogUsecase struct {
	categoryRepo  repo.CategoryRepository
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	tx            repo.TransactionManager
}

// DI
func NewCatalogUsecase(
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	tx repo.TransactionManager,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		tx:            tx,
	}
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

// GET /productsの入力DTO
type ProductSearchInput struct {
	Parameter  string // category / product / price
	Query      string
	CategoryID *int64
}

// ListProducts は商品一覧。parameter+queryの絞り込み付き。
// category/productは部分一致（大文字小文字は無視）、priceは完全一致。
func (u *CatalogUsecase) ListProducts(ctx context.Context, in ProductSearchInput) ([]model.Product, error) {
	q := repo.ProductListQuery{CategoryID: in.CategoryID}

	if in.Parameter != "" {
		switch in.Parameter {
		case "product":
			q.NameLike = in.Query
		case "category":
			q.CategoryNameLike = in.Query
		case "price":
			price, err := strconv.ParseFloat(strings.TrimSpace(in.Query), 64)
			if err != nil {
				return nil, NewHTTPError(http.StatusBadRequest, "invalid query")
			}
			q.Price = &price
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid parameter")
		}
	}

	products, err := u.productRepo.List(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// =====================
// Admin: Category CRUD
// =====================

func (u *CatalogUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, name string) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{Name: name})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionCreateCategory, model.AuditResourceCategory, c.ID,
		"", fmt.Sprintf(`{"name":%q}`, name))

	return c.ID, nil
}

func (u *CatalogUsecase) AdminUpdateCategory(ctx context.Context, adminUserID int64, categoryID int64, name string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	before, err := u.categoryRepo.FindByID(ctx, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.categoryRepo.Update(ctx, model.Category{ID: categoryID, Name: name}); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateCategory, model.AuditResourceCategory, categoryID,
		fmt.Sprintf(`{"name":%q}`, before.Name), fmt.Sprintf(`{"name":%q}`, name))

	return nil
}

// AdminDeleteCategory はカテゴリと配下の商品をまとめて消す。
// 商品を参照していたカート行も同じトランザクションで消す。
func (u *CatalogUsecase) AdminDeleteCategory(ctx context.Context, adminUserID int64, categoryID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var deletedName string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().FindByID(ctx, categoryID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		deletedName = c.Name

		productIDs, err := r.Products().ListIDsByCategoryID(ctx, categoryID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Carts().DeleteByProductIDs(ctx, productIDs); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().DeleteByCategoryID(ctx, categoryID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Categories().DeleteByID(ctx, categoryID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionDeleteCategory, model.AuditResourceCategory, categoryID,
		fmt.Sprintf(`{"name":%q}`, deletedName), "")

	return nil
}

// =====================
// Admin: Product CRUD
// =====================

type AdminProductInput struct {
	Name            string
	Price           float64
	CategoryID      int64
	Quantity        int64
	ManufactureDate time.Time
}

func (u *CatalogUsecase) validateProductInput(ctx context.Context, in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Quantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
	}
	if in.ManufactureDate.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "manufacture_date required")
	}

	//カテゴリの存在チェック
	_, err := u.categoryRepo.FindByID(ctx, in.CategoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.CategoryID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if err := u.validateProductInput(ctx, in); err != nil {
		return 0, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:            strings.TrimSpace(in.Name),
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		Quantity:        in.Quantity,
		ManufactureDate: in.ManufactureDate,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionCreateProduct, model.AuditResourceProduct, p.ID,
		"", fmt.Sprintf(`{"name":%q,"price":%g,"quantity":%d}`, p.Name, p.Price, p.Quantity))

	return p.ID, nil
}

func (u *CatalogUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.CategoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if err := u.validateProductInput(ctx, in); err != nil {
		return err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.Update(ctx, model.Product{
		ID:              productID,
		Name:            strings.TrimSpace(in.Name),
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		Quantity:        in.Quantity,
		ManufactureDate: in.ManufactureDate,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID,
		fmt.Sprintf(`{"name":%q,"price":%g,"quantity":%d}`, before.Name, before.Price, before.Quantity),
		fmt.Sprintf(`{"name":%q,"price":%g,"quantity":%d}`, strings.TrimSpace(in.Name), in.Price, in.Quantity))

	return nil
}

// AdminDeleteProduct は商品を消す。参照していたカート行も一緒に消す。
// 過去のOrder行はスナップショットなのでそのまま残る。
func (u *CatalogUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Carts().DeleteByProductIDs(ctx, []int64{productID}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().DeleteByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, "", "")

	return nil
}

// AdminSetStock は在庫を「現在値」に上書きし、調整履歴と監査ログを残す。
func (u *CatalogUsecase) AdminSetStock(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	//変更前の在庫（before）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.SetStock(ctx, productID, newStock); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//履歴を作成（差分）
	adj := model.InventoryAdjustment{
		ProductID:   productID,
		AdminUserID: adminUserID,
		Delta:       newStock - p.Quantity,
		Reason:      strings.TrimSpace(reason),
		CreatedAt:   time.Now(),
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
		fmt.Sprintf(`{"quantity":%d}`, p.Quantity), fmt.Sprintf(`{"quantity":%d}`, newStock))

	return nil
}

func (u *CatalogUsecase) ListAuditLogs(ctx context.Context, adminUserID int64, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	if adminUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// 監査ログは本体の操作が成功してから残す。失敗しても操作は巻き戻さない。
func (u *CatalogUsecase) writeAudit(ctx context.Context, actorID int64, action model.AuditAction, resource model.AuditResourceType, resourceID int64, beforeJSON, afterJSON string) {
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	})
}
