package labelspec

import (
	"github.com/smallbiznis/labelworks/internal/labelspec/repository"
	"github.com/smallbiznis/labelworks/internal/labelspec/service"
	"go.uber.org/fx"
)

var Module = fx.Module("labelspec.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
