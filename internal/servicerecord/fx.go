package servicerecord

import (
	"github.com/smallbiznis/pestdesk/internal/servicerecord/repository"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicerecord.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
