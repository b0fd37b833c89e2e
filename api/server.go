package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/atomic-bridge/api/handlers"
)

func Serve(
	ctx context.Context,
	addr string,
	transfersHandler *handlers.TransfersHandler,
	confirmationsHandler *handlers.ConfirmationsHandler,
) {
	server := &http.Server{
		Addr:        addr,
		Handler:     NewRouter(transfersHandler, confirmationsHandler),
		ReadTimeout: time.Second * 10,
	}
	go func() {
		log.Info().Msgf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Msgf("Error shutting down server")
	} else {
		log.Info().Msgf("Server shut down gracefully.")
	}
}

func NewRouter(
	transfersHandler *handlers.TransfersHandler,
	confirmationsHandler *handlers.ConfirmationsHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/transfers/{transferId}", transfersHandler.HandleRequest).Methods("GET")
	r.HandleFunc("/v1/transfers/{transferId}/reconcile", transfersHandler.HandleReconcile).Methods("POST")
	r.HandleFunc("/v1/chains/{chain}/confirmations", confirmationsHandler.HandleRequest).Methods("GET")
	return r
}
