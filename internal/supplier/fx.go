package supplier

import (
	"github.com/smallbiznis/labelworks/internal/supplier/repository"
	"github.com/smallbiznis/labelworks/internal/supplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideContacts),
	fx.Provide(service.New),
)
