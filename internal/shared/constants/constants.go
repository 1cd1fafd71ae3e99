package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names shared with the external FTP daemon. The quota
	// tables are a cross-system contract (ProFTPD mod_quotatab schema), not
	// an internal relation; renaming them breaks the daemon.
	TableOrders                 = "orders"
	TablePlans                  = "plans"
	TableAddonProducts          = "addon_products"
	TableSubscriptions          = "descargas_users"
	TableFTPAccounts            = "ftpuser"
	TableQuotaLimits            = "ftpquotalimits"
	TableQuotaTallies           = "ftpquotatallies"
	TablePlanChangeTransactions = "change_plan_transactions"
	TableCancellationFeedback   = "cancellation_feedback"
	TableUsers                  = "users"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
)
