package dash

import (
	"database/sql"
	"log"
	"net/http"
)

func StartDashService(db *sql.DB) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Dashboard Service"))
	})
	mux.HandleFunc("/dash/daily", GetDailyPnL(db))
	mux.HandleFunc("/dash/summary", GetPnLSummary(db))
	mux.HandleFunc("/dash/by-sku", GetPnLBySKU(db))
	mux.HandleFunc("/dash/by-platform", GetPnLByPlatform(db))
	mux.HandleFunc("/dash/orders", GetOrderPnL(db))
	log.Println("Dashboard Service started on :4143")
	err := http.ListenAndServe(":4143", mux)
	if err != nil {
		log.Fatalf("Dashboard Service failed: %v", err)
	}
}
