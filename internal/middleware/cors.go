package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/concord/internal/config"
)

// CORS is the CORS middleware. Origins are matched against
// server.allowed_origins; credentials are only allowed for an
// explicitly listed origin, never for the wildcard.
func CORS() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		origin := string(c.Request.Header.Peek("Origin"))
		if origin != "" {
			if allowed, exact := originAllowed(origin, config.GlobalConfig.Server.AllowedOrigins); allowed {
				if exact {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Access-Control-Allow-Credentials", "true")
				} else {
					c.Header("Access-Control-Allow-Origin", "*")
				}
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
				c.Header("Access-Control-Expose-Headers", "Content-Length")
			}
		}

		if string(c.Method()) == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next(ctx)
	}
}

func originAllowed(origin string, allowedOrigins []string) (allowed, exact bool) {
	for _, a := range allowedOrigins {
		if a == "*" {
			allowed = true
			continue
		}
		if strings.EqualFold(origin, a) {
			return true, true
		}
	}
	return allowed, false
}
