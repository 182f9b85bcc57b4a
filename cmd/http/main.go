package main

import (
	"log"
	"net/http"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
	"github.com/awmpietro/autocase/internal/config"
	"github.com/awmpietro/autocase/internal/transport/httptransport"
)

func main() {
	cfg := config.Load()

	observer := branch.NewAsyncPathObserver(branch.NewPathLogger(log.Default()), cfg.ObsBuffer)
	defer observer.Close()

	svc := app.NewService(
		branch.NewBuilder(),
		cache.NewInMemory(cfg.CacheMaxItems),
		app.WithMaxPaths(cfg.MaxPaths),
		app.WithPathObserver(observer),
	)
	h := httptransport.NewHandler(svc, cfg.WithPath)

	mux := http.NewServeMux()
	mux.HandleFunc("/generate", h.Generate)
	mux.HandleFunc("/graph", h.Graph)

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}
