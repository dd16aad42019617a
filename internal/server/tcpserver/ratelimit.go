package tcpserver

import (
	"golang.org/x/time/rate"

	"github.com/tcpgate/tcpgate/pkg/cmap"
)

// limiterRegistry keeps one token bucket per source IP.
type limiterRegistry struct {
	limit    rate.Limit
	burst    int
	limiters *cmap.Map[string, *rate.Limiter]
}

func newLimiterRegistry(perSecond int) *limiterRegistry {
	if perSecond <= 0 {
		return nil
	}
	return &limiterRegistry{
		limit:    rate.Limit(perSecond),
		burst:    perSecond,
		limiters: cmap.New[string, *rate.Limiter](),
	}
}

// Allow reports whether a connection from the given IP may proceed.
func (r *limiterRegistry) Allow(ip string) bool {
	l, _ := r.limiters.GetOrSet(ip, rate.NewLimiter(r.limit, r.burst))
	return l.Allow()
}
