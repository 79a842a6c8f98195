package pnl

import (
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartPnLService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pnl/orders/upload", UploadOrders(pool))
	mux.HandleFunc("/pnl/income/upload", UploadIncome(pool))
	mux.HandleFunc("/pnl/run", RunPipeline(pool))
	log.Println("PnL Service started on :7431")
	err := http.ListenAndServe(":7431", mux)
	if err != nil {
		log.Fatalf("PnL Service failed: %v", err)
	}
}
