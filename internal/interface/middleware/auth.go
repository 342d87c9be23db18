package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paulorsp2021/usuario/pkg/helpers"
	"github.com/paulorsp2021/usuario/pkg/response"
)

const CtxUserEmailKey = "userEmail"

// Auth validates the bearer token in the Authorization header and sets
// the resolved email in the Gin context. The raw header is left intact
// for handlers that forward it to the service layer.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := helpers.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
