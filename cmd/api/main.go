package main

import (
	"context"
	"log"

	"grocerystore/internal/config"
	"grocerystore/internal/domain/model"
	"grocerystore/internal/handler"
	"grocerystore/internal/infra/db"
	infraRepo "grocerystore/internal/infra/repository"
	"grocerystore/internal/server"
	"grocerystore/internal/usecase"
	"grocerystore/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは任意（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.Transaction{},
		&model.Order{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	accountUC := usecase.NewAccountUsecase(cfg, userRepo, sessionRepo, txManager, validator.NewAccountValidator())
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo, inventoryRepo, auditRepo, txManager)
	cartUC := usecase.NewCartUsecase(txManager)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)

	//起動時に管理者を保証する
	if err := accountUC.EnsureBootstrapAdmin(context.Background()); err != nil {
		log.Fatal(err)
	}

	//Handler生成
	h := server.Handlers{
		Auth:          handler.NewAuthHandler(accountUC),
		Account:       handler.NewAccountHandler(accountUC),
		Category:      handler.NewCategoryHandler(catalogUC),
		Product:       handler.NewProductHandler(catalogUC),
		Cart:          handler.NewCartHandler(cartUC),
		Order:         handler.NewOrderHandler(checkoutUC),
		AdminCategory: handler.NewAdminCategoryHandler(catalogUC),
		AdminProduct:  handler.NewAdminProductHandler(catalogUC),
		AdminUser:     handler.NewAdminUserHandler(accountUC, catalogUC),
	}

	//Server起動
	e := server.New(cfg, sessionRepo, h)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
