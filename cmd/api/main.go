package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/estokia-api/internal/application/auth"
	"github.com/tu-usuario/estokia-api/internal/application/sales"
	"github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/application/usecase"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	infrapdf "github.com/tu-usuario/estokia-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/estokia-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/estokia-api/internal/interfaces/http"
	"github.com/tu-usuario/estokia-api/pkg/config"
	"github.com/tu-usuario/estokia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Motor de stock: ledger + alertas + reportes
	ledgerUC := stock.NewLedgerUseCase(txRunner, productRepo)
	alertUC := stock.NewAlertUseCase(alertRepo, productRepo)
	reportUC := stock.NewReportUseCase(movementRepo, productRepo)

	ledgerLog := log.Component("ledger")
	ledgerUC.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		ledgerLog.Info().
			Str("movement_id", res.Movement.ID).
			Str("product_id", res.Movement.ProductID).
			Str("type", res.Movement.Type).
			Int("quantity", res.Movement.Quantity).
			Int("current_stock", res.Product.CurrentStock).
			Msg("movimiento aplicado")
	})
	ledgerUC.AddPostCommitHook(func(ctx context.Context, res stock.MovementResult) {
		if err := alertUC.CheckProduct(ctx, res.Movement.ProductID); err != nil {
			ledgerLog.Warn().Err(err).
				Str("product_id", res.Movement.ProductID).
				Msg("chequeo de alerta falló")
		}
	})
	alertLog := log.Component("alerts")
	alertUC.OnAlert(func(ctx context.Context, alert *entity.Alert) {
		alertLog.Warn().
			Str("alert_id", alert.ID).
			Str("product_id", alert.ProductID).
			Str("priority", alert.Priority).
			Msg(alert.Message)
	})

	// Motor de ventas acoplado al ledger
	salesUC := sales.NewSalesUseCase(saleRepo, productRepo, ledgerUC, txRunner).
		WithAtomicCompletion(cfg.Sales.AtomicCompletion).
		WithReceiptGenerator(infrapdf.NewMarotoReceiptGenerator(cfg.App.Name))
	salesLog := log.Component("sales")
	salesUC.AddStatusHook(func(ctx context.Context, sale *entity.Sale, oldStatus string) {
		salesLog.Info().
			Str("sale_id", sale.ID).
			Str("sale_number", sale.SaleNumber).
			Str("from", oldStatus).
			Str("to", sale.Status).
			Msg("cambio de estado de venta")
	})

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo).WithLedger(ledgerUC)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "EstokIA API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		LedgerUC:   ledgerUC,
		AlertUC:    alertUC,
		ReportUC:   reportUC,
		SalesUC:    salesUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
