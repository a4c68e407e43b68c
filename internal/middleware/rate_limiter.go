package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taller/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Contador counts hits per key within a fixed window.
type Contador interface {
	// Incrementar adds one hit and returns the count and the window's end.
	Incrementar(ctx context.Context, clave string, ventana time.Duration) (int64, time.Time, error)
}

// ── Redis counter ─────────────────────────────────────────────────────────────
// Shared across instances: INCR plus an expiry set on the first hit.

type contadorRedis struct{ rdb *redis.Client }

func NewContadorRedis(rdb *redis.Client) Contador { return &contadorRedis{rdb: rdb} }

func (c *contadorRedis) Incrementar(ctx context.Context, clave string, ventana time.Duration) (int64, time.Time, error) {
	key := "ratelimit:" + clave
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ventana)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	return incr.Val(), time.Now().Add(ttl.Val()), nil
}

// ── In-memory counter ─────────────────────────────────────────────────────────

type ventanaIP struct {
	count     int64
	windowEnd time.Time
}

type contadorMemoria struct {
	mu       sync.Mutex
	ventanas map[string]*ventanaIP
	now      func() time.Time
}

// NewContadorMemoria keeps counts in process. Expired windows are dropped
// lazily once the map grows past a threshold.
func NewContadorMemoria() Contador {
	return &contadorMemoria{ventanas: make(map[string]*ventanaIP), now: time.Now}
}

const purgaUmbral = 10000

func (c *contadorMemoria) Incrementar(_ context.Context, clave string, ventana time.Duration) (int64, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.ventanas) > purgaUmbral {
		for k, v := range c.ventanas {
			if now.After(v.windowEnd) {
				delete(c.ventanas, k)
			}
		}
	}
	v, ok := c.ventanas[clave]
	if !ok || now.After(v.windowEnd) {
		v = &ventanaIP{windowEnd: now.Add(ventana)}
		c.ventanas[clave] = v
	}
	v.count++
	return v.count, v.windowEnd, nil
}

// RateLimiter allows limit requests per window per client IP. Counter errors
// fail open.
func RateLimiter(contador Contador, nombre string, limit int, window time.Duration, mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, fin, err := contador.Incrementar(c.Request.Context(), nombre+":"+c.ClientIP(), window)
		if err != nil {
			log.Warn().Err(err).Str("limiter", nombre).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			segundos := int(time.Until(fin).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(contador Contador) gin.HandlerFunc {
	return RateLimiter(contador, "login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}
