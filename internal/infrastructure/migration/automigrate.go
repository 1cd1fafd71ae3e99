package migration

import (
	"github.com/bajabeat/descargas/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every model the schema covers. The three FTP
// daemon tables are included so a development database is self-contained;
// in production they already exist on the daemon's side and the versioned
// scripts only add our indexes.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlanModel{},
		&models.AddonProductModel{},
		&models.OrderModel{},
		&models.SubscriptionModel{},
		&models.CancellationFeedbackModel{},
		&models.PlanChangeTransactionModel{},
		&models.FTPUserModel{},
		&models.QuotaLimitsModel{},
		&models.QuotaTalliesModel{},
	}
}
