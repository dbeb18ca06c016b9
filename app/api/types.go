package api

import (
	"context"

	"github.com/maelbrgt/instagrid/app/grid"
	"github.com/maelbrgt/instagrid/app/proxy"
	"github.com/maelbrgt/instagrid/app/render"
)

type NormalizerInterface interface {
	Run(ctx context.Context, databaseID string, pageSize int) (*grid.Result, error)
}

var _ NormalizerInterface = (*grid.Normalizer)(nil)

type RendererInterface interface {
	Run(result *grid.Result, opts render.Options) (string, error)
}

var _ RendererInterface = (*render.Renderer)(nil)

type FetcherInterface interface {
	Run(ctx context.Context, target string) (*proxy.Media, error)
}

var _ FetcherInterface = (*proxy.Fetcher)(nil)

type Handler struct {
	normalizer NormalizerInterface
	renderer   RendererInterface
	fetcher    FetcherInterface
}
