package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paulorsp2021/usuario/internal/container"
	handlers "github.com/paulorsp2021/usuario/internal/interface/http"
	"github.com/paulorsp2021/usuario/internal/interface/middleware"
	"github.com/paulorsp2021/usuario/pkg/helpers"
)

// UserModule wires the account HTTP handlers and JWT middleware into routes
// Public: POST /api/login, POST /api/user, GET /api/user, DELETE /api/user/:email
// Protected: PUT /api/user, POST /api/user/address, POST /api/user/phone,
// PUT /api/user/address/:id, PUT /api/user/phone/:id

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)           // 10 req/min per IP
	registerLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil) // 20 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/user", registerLimiter, m.Handler.Register)
	rg.GET("/user", m.Handler.FindByEmail)
	rg.DELETE("/user/:email", m.Handler.DeleteByEmail)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByEmail(), nil),
	)
	{
		auth.PUT("/user", m.Handler.UpdateProfile)
		auth.POST("/user/address", m.Handler.CreateAddress)
		auth.POST("/user/phone", m.Handler.CreatePhone)
		auth.PUT("/user/address/:id", m.Handler.UpdateAddress)
		auth.PUT("/user/phone/:id", m.Handler.UpdatePhone)
	}
}
