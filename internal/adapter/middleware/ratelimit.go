package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewLimiter parses a rate like "10-M" (10 per minute) into an in-memory
// limiter whose keys carry prefix. An empty rate returns nil, which
// disables throttling.
func NewLimiter(prefix, rate string) (*limiter.Limiter, error) {
	if rate == "" {
		return nil, nil
	}
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix}), r), nil
}

// RateLimit throttles requests per client IP. It guards the routes that
// check a single member PIN so guessing is bounded.
func RateLimit(l *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if l == nil {
			return next
		}
		return func(c echo.Context) error {
			ok, err := charge(c, l, 1)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			if !ok {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}

// RecordBudget charges n units per client IP in one step. Bulk routes use
// it so each PIN they resolve costs the same as a single lookup. A nil
// limiter never refuses.
func RecordBudget(l *limiter.Limiter) func(c echo.Context, n int) (bool, error) {
	return func(c echo.Context, n int) (bool, error) {
		if l == nil {
			return true, nil
		}
		return charge(c, l, int64(n))
	}
}

func charge(c echo.Context, l *limiter.Limiter, n int64) (bool, error) {
	ip := c.RealIP()
	lc, err := l.Increment(c.Request().Context(), ip, n)
	if err != nil {
		Logger(c).Error("rate limit lookup failed", slog.String("ip", ip), slog.Any("err", err))
		return false, err
	}

	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

	if lc.Reached {
		Logger(c).Warn("rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", lc.Limit), slog.Int64("charged", n))
		return false, nil
	}
	return true, nil
}
