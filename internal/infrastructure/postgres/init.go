package postgres

import (
	"log"

	"github.com/agrisetu/agri-trade-service/internal/config"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.TradeConfig) *gorm.DB {
	dsn := cfg.TradeDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.EscrowLedgerModel{},
		&models.ContractModel{},
		&models.ContractStageModel{},
		&models.ContractDisputeModel{},
		&models.PaymentRequestModel{},
		&models.ReviewModel{},
		&models.ReputationModel{},
		&models.PartyStatsModel{},
	)

	return db
}
