package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
	"github.com/awmpietro/autocase/internal/config"
	"github.com/awmpietro/autocase/internal/transport/lambdatransport"
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
	h := lambdatransport.NewHandler(svc, cfg.WithPath)

	lambda.Start(h.Generate)
}
