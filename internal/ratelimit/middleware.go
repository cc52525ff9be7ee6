package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

// Scope decides which calls share one timestamp list.
type Scope string

const (
	ScopeGlobal Scope = "global" // все маршруты и клиенты вместе
	ScopeRoute  Scope = "route"  // отдельный список на шаблон маршрута
	ScopeClient Scope = "client" // отдельный список на IP клиента
)

// ParseScope validates a scope name.
func ParseScope(name string) (Scope, error) {
	switch Scope(name) {
	case ScopeGlobal, ScopeRoute, ScopeClient:
		return Scope(name), nil
	default:
		return "", fmt.Errorf("unknown rate limit scope '%s'", name)
	}
}

var rejectedRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "slides_rate_limited_requests_total",
		Help: "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)

// KeyFunc returns the gin key function for scope.
func KeyFunc(scope Scope) func(c *gin.Context) string {
	switch scope {
	case ScopeGlobal:
		return func(c *gin.Context) string { return "global" }
	case ScopeRoute:
		return func(c *gin.Context) string {
			if route := c.FullPath(); route != "" {
				return c.Request.Method + " " + route
			}
			return c.Request.Method + " " + c.Request.URL.Path
		}
	default:
		return func(c *gin.Context) string { return c.ClientIP() }
	}
}

// Middleware wraps store into gin middleware. Rejected requests get 429 with the standard error body.
func Middleware(store rateli.Store, scope Scope, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("RateLimiter")
	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			retryAfter := int(math.Ceil(time.Until(info.ResetTime).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			rejectedRequests.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  model.KindRateLimited,
			})
		},
		KeyFunc: KeyFunc(scope),
	})
}
