package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stagelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JWTAuthMiddleware authenticates a bearer token and places userID and role
// on the request context. The token's hash must still be present in the auth
// cache: sign-out deletes the entry, which revokes the token before expiry.
// If the cache is unreachable the signature check alone decides.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.APIResponse{
				Success: false, Error: "missing or invalid Authorization header",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, role, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.APIResponse{
				Success: false, Error: "invalid or expired token",
			})
			return
		}

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
			cachedUserID, err := authCache.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				if cachedUserID != userID {
					c.AbortWithStatusJSON(http.StatusUnauthorized, utils.APIResponse{
						Success: false, Error: "token mismatch",
					})
					return
				}
				// Sliding session: refresh the entry on use.
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
			case err == redis.Nil:
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.APIResponse{
					Success: false, Error: "session expired or signed out",
				})
				return
			default:
				utils.GetLogger().Warn("auth cache unavailable, trusting token signature",
					zap.Error(err))
			}
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}
