package app

import "context"

type GenerateService interface {
	Generate(ctx context.Context, req Request) (*Result, error)
	Graph(req Request) (string, error)
}
