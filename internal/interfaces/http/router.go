package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bajabeat/descargas/internal/application/billing/usecases"
	"github.com/bajabeat/descargas/internal/infrastructure/billing"
	"github.com/bajabeat/descargas/internal/infrastructure/cache"
	"github.com/bajabeat/descargas/internal/infrastructure/config"
	"github.com/bajabeat/descargas/internal/infrastructure/email"
	"github.com/bajabeat/descargas/internal/infrastructure/repository"
	"github.com/bajabeat/descargas/internal/infrastructure/scheduler"
	"github.com/bajabeat/descargas/internal/infrastructure/services"
	"github.com/bajabeat/descargas/internal/interfaces/http/handlers"
	"github.com/bajabeat/descargas/internal/interfaces/http/middleware"
	shareddb "github.com/bajabeat/descargas/internal/shared/db"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

// Router wires the HTTP surface together with the billing and quota
// use cases and the background schedulers.
type Router struct {
	engine           *gin.Engine
	webhookHandler   *handlers.WebhookHandler
	billingHandler   *handlers.BillingHandler
	quotaHandler     *handlers.QuotaHandler
	trialHandler     *handlers.TrialHandler
	schedulerManager *scheduler.SchedulerManager
	logger           logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	orderRepo := repository.NewOrderRepository(db)
	planRepo := repository.NewPlanRepository(db)
	addonRepo := repository.NewAddonProductRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	feedbackRepo := repository.NewCancellationFeedbackRepository(db)
	userRepo := repository.NewUserRepository(db)
	limitsRepo := repository.NewQuotaLimitsRepository(db)
	talliesRepo := repository.NewQuotaTalliesRepository(db)
	accountRepo := repository.NewFTPAccountRepository(db)
	changeRepo := repository.NewPlanChangeTransactionRepository(db)

	txManager := shareddb.NewTransactionManager(db)
	planChangeLock := cache.NewPlanChangeLock(redisClient, log)

	cardClient := billing.NewCardClient(cfg.Providers.CardBaseURL, cfg.Providers.CardAPIKey, log)
	walletClient := billing.NewWalletClient(cfg.Providers.WalletBaseURL, cfg.Providers.WalletClientID, cfg.Providers.WalletSecret, log)
	voucherClient := billing.NewVoucherClient(cfg.Providers.VoucherBaseURL, cfg.Providers.VoucherAPIKey, log)

	alertMailer := email.NewAlertMailer(&cfg.Email, log)
	hasher := services.NewBcryptHasher(12)

	addonCfg := usecases.AddonAccountConfig{
		HomeDir: cfg.Quota.AddonHomeDir,
		UID:     cfg.Quota.FTPUid,
		GID:     cfg.Quota.FTPGid,
	}

	fulfillOrderUC := usecases.NewFulfillOrderUseCase(
		txManager, orderRepo, planRepo, addonRepo, subRepo, userRepo,
		limitsRepo, accountRepo, hasher, alertMailer, addonCfg, log,
	)
	changePlanUC := usecases.NewChangePlanUseCase(
		planChangeLock,
		time.Duration(cfg.Billing.PlanChangeLockTTLSeconds)*time.Second,
		txManager, orderRepo, planRepo, subRepo, userRepo,
		limitsRepo, talliesRepo, changeRepo,
		cardClient, walletClient, alertMailer,
		cfg.Billing.PriceKey, log,
	)
	cancelUC := usecases.NewCancelSubscriptionUseCase(
		txManager, orderRepo, subRepo, feedbackRepo, cardClient, walletClient, log,
	)
	issueVoucherUC := usecases.NewIssueCashVoucherUseCase(
		orderRepo, planRepo, userRepo, voucherClient, cfg.Billing.VoucherExpiryDays, log,
	)
	buyAddonUC := usecases.NewPurchaseAddonUseCase(
		orderRepo, addonRepo, subRepo, userRepo, voucherClient, cfg.Billing.VoucherExpiryDays, log,
	)
	eligibilityUC := usecases.NewResolveTrialEligibilityUseCase(
		orderRepo, userRepo, cfg.Trial.Enabled, log,
	)
	startTrialUC := usecases.NewStartTrialUseCase(
		eligibilityUC, txManager, userRepo, limitsRepo, accountRepo,
		int64(cfg.Trial.StorageGB), log,
	)
	snapshotUC := usecases.NewGetQuotaSnapshotUseCase(
		userRepo, subRepo, planRepo, limitsRepo, talliesRepo, log,
	)

	schedulerManager := setupScheduler(txManager, orderRepo, subRepo, limitsRepo, log)

	return &Router{
		engine:           engine,
		webhookHandler:   handlers.NewWebhookHandler(fulfillOrderUC),
		billingHandler:   handlers.NewBillingHandler(changePlanUC, cancelUC, issueVoucherUC, buyAddonUC),
		quotaHandler:     handlers.NewQuotaHandler(snapshotUC),
		trialHandler:     handlers.NewTrialHandler(eligibilityUC, startTrialUC),
		schedulerManager: schedulerManager,
		logger:           log,
	}
}

func setupScheduler(
	txManager *shareddb.TransactionManager,
	orderRepo *repository.OrderRepository,
	subRepo *repository.SubscriptionRepository,
	limitsRepo *repository.QuotaLimitsRepository,
	log logger.Interface,
) *scheduler.SchedulerManager {
	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Errorw("failed to create scheduler manager", "error", err)
		return nil
	}

	expireOrdersUC := usecases.NewExpirePendingOrdersUseCase(orderRepo, log)
	if err := manager.RegisterOrderJobs(expireOrdersUC); err != nil {
		log.Warnw("failed to register order jobs", "error", err)
	}

	expireSubsUC := usecases.NewExpireSubscriptionsUseCase(txManager, subRepo, limitsRepo, log)
	if err := manager.RegisterSubscriptionJobs(expireSubsUC); err != nil {
		log.Warnw("failed to register subscription jobs", "error", err)
	}

	return manager
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "descargas",
		})
	})

	api := r.engine.Group("/api")

	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/payment-confirmations", r.webhookHandler.ConfirmPayment)
	}

	billingGroup := api.Group("/billing")
	{
		billingGroup.POST("/plan-changes", r.billingHandler.ChangePlan)
		billingGroup.POST("/cancellations", r.billingHandler.CancelSubscription)
		billingGroup.POST("/vouchers", r.billingHandler.IssueVoucher)
		billingGroup.POST("/addon-orders", r.billingHandler.PurchaseAddon)
	}

	quota := api.Group("/quota")
	{
		quota.GET("/snapshot", r.quotaHandler.GetSnapshot)
	}

	trial := api.Group("/trial")
	{
		trial.GET("/eligibility", r.trialHandler.GetEligibility)
		trial.POST("", r.trialHandler.StartTrial)
	}
}

// StartScheduler starts the background sweep jobs.
func (r *Router) StartScheduler() {
	if r.schedulerManager != nil {
		r.schedulerManager.Start()
	}
}

// Shutdown gracefully shuts down the router
func (r *Router) Shutdown() {
	if r.schedulerManager != nil {
		if err := r.schedulerManager.Stop(); err != nil {
			r.logger.Errorw("failed to stop scheduler manager", "error", err)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
