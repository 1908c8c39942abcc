package migration

import (
	"github.com/gorodok-inc/gorodok/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ReportModel{},
	}
}
