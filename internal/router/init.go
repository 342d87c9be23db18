package router

import (
	userapp "github.com/paulorsp2021/usuario/internal/application"
	"github.com/paulorsp2021/usuario/internal/container"
	pginfra "github.com/paulorsp2021/usuario/internal/infrastructure/postgres"
	handlers "github.com/paulorsp2021/usuario/internal/interface/http"
	"github.com/paulorsp2021/usuario/internal/router/modules"
)

type UserModuleDeps struct {
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	pool := container.GetPGPool()

	service := userapp.NewService(
		pginfra.NewUserRepository(pool),
		pginfra.NewAddressRepository(pool),
		pginfra.NewPhoneRepository(pool),
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT()))
	if container.GetConfig() == nil || container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
