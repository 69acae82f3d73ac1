// Command stub serves a fake pollination backend for local runs and load
// tests of the agent.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-pollination-agent/internal/testutil/stub"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	gin.SetMode(gin.ReleaseMode)

	h := stub.NewHandler(stub.NewStorage(), os.Getenv("STUB_TOKEN"))
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: h.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting backend stub", slog.String("port", port))
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown stub", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stub exited with error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
