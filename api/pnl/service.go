package pnl

import (
	"SellerLedgerSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PnLService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewPnLService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &PnLService{config: cfg, pool: pool}
}

func (s *PnLService) Name() string {
	return "pnl"
}

func (s *PnLService) Start() error {
	go StartPnLService(s.pool)
	return nil
}

func (s *PnLService) Stop() error {
	return nil
}
