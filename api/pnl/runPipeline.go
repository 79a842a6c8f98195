package pnl

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"SellerLedgerSaas/api"
	"SellerLedgerSaas/api/constants"
)

// RunPipeline triggers a reconciliation run over the staged data. An empty
// body runs everything.
func RunPipeline(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var cfg PipelineConfig
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSONShort)
				return
			}
		}
		sum, err := RunForConfig(r.Context(), pool, cfg)
		if errors.Is(err, ErrNoData) {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNothingToAggregate)
			return
		}
		if err != nil {
			log.Printf("[ERROR] pipeline run failed: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrPipelineWriteFailed)
			return
		}
		api.RespondWithPayload(w, true, "", sum)
	}
}
