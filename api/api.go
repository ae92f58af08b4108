// Package api is the admin HTTP surface: status/field edits on deliveries,
// tariff management and daily stats. It calls the same service layer as the
// bot; serializing concurrent edits to one delivery is the caller's job.
package api

import (
	"log"
	"net/http"

	"livraison-telegram/services"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with all admin routes behind basic auth.
func Router() *gin.Engine {
	r := gin.Default()

	authed := r.Group("/api", adminAuth())
	authed.GET("/deliveries", listDeliveries)
	authed.GET("/deliveries/:id", getDelivery)
	authed.POST("/deliveries/:id/status", changeDeliveryStatus)
	authed.GET("/deliveries/:id/history", getDeliveryHistory)
	authed.GET("/tariffs", listTariffs)
	authed.PUT("/tariffs", upsertTariff)
	authed.GET("/stats/daily", dailyStats)

	return r
}

// Run starts the admin API on addr, blocking.
func Run(addr string) {
	if err := Router().Run(addr); err != nil {
		log.Fatalf("admin api: %v", err)
	}
}

// authUserKey carries the authenticated admin username to handlers, which
// record it as the history actor.
const authUserKey = "admin_user"

// adminAuth verifies basic-auth credentials against admin_credentials,
// with the exponential login cooldown applied per username.
func adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok || username == "" {
			c.Header("WWW-Authenticate", `Basic realm="livraison"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credentials required"})
			return
		}
		ctx := c.Request.Context()
		if wait, err := services.LoginThrottleWaitSeconds(ctx, username); err == nil && wait > 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts", "retry_after_seconds": wait})
			return
		}
		valid, err := services.VerifyAdminCredential(ctx, username, password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !valid {
			_ = services.RecordLoginFailed(ctx, username)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		_ = services.RecordLoginSuccess(ctx, username)
		c.Set(authUserKey, username)
		c.Next()
	}
}
