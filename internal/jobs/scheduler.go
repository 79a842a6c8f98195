package jobs

import (
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"SellerLedgerSaas/internal/logger"
	"SellerLedgerSaas/internal/serviceiface"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	recomputeConfig := NewDefaultRecomputeConfig()

	// Override from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["recompute_schedule"].(string); ok && schedule != "" {
			recomputeConfig.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			recomputeConfig.TimeZone = tz
		}
	}

	if err := RunRecomputeScheduler(recomputeConfig, s.db); err != nil {
		return fmt.Errorf("failed to start recompute scheduler: %v", err)
	}

	logger.Audit("Cron service started with nightly P&L recompute")
	log.Println("Cron service started, nightly P&L recompute scheduled")
	return nil
}

func (s *CronService) Stop() error {
	return nil
}
