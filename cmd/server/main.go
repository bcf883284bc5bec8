package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdeck/news"
	"newsdeck/server"
	"newsdeck/server/auth"
	"newsdeck/store"
	"newsdeck/utils/dotenv"
	. "newsdeck/utils/log"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	dataDir := os.Getenv("NEWSDECK_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	userStore := store.NewStore(dataDir)
	defer userStore.Stop()

	provider := news.NewProviderClient(os.Getenv("NEWS_API_KEY"))
	if !provider.Configured() {
		Log.Warn("NEWS_API_KEY is not set, news routes run in degraded mode")
	}
	cache := news.NewCache(provider)
	stopRefresh := cache.StartRefresh()
	defer stopRefresh()

	srv := server.New(userStore, news.NewService(cache), auth.NewTokenService())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: srv.Router(),
	}

	go func() {
		Log.Infof("api server starts up on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			Log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		Log.Errorf("forced shutdown: %v", err)
	}
	Log.Info("api server shutdown")
}
