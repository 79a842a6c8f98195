package master

import (
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartMasterService(pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/master/product-costs/upload", UploadProductCosts(pool))
	mux.HandleFunc("/master/product-costs", ListProductCosts(pool))
	mux.HandleFunc("/master/adspend/upload", UploadAdSpend(pool))
	mux.HandleFunc("/master/adspend", ListAdSpend(pool))
	log.Println("Master Service started on :5143")
	err := http.ListenAndServe(":5143", mux)
	if err != nil {
		log.Fatalf("Master Service failed: %v", err)
	}
}
