//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/llamasearchai/llamaquest/internal/config"
)

func InitializeToolkit(cfg *config.Config) (*Toolkit, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
