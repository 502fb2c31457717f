package middlewares

import (
	"context"
	"net/http"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the token header into a username on the request
// context. Tokens are looked up in Redis first; when Redis is not configured
// the JWT claims themselves are trusted.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)

		if config.GetRedisDB() != nil {
			username, exists, err := config.GetRedisValue("Token:" + token)
			if err != nil || !exists {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			ctx = utils.SetUsernameInContext(ctx, username)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		claims, err := utils.JwtValidate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		ctx = utils.SetUsernameInContext(ctx, claims.Username)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
