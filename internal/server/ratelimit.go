package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL     = 10 * time.Minute
	maxLimiterEntries  = 10000
	limiterSweepPeriod = time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles credential endpoints per client IP.
type loginLimiter struct {
	mu         sync.Mutex
	perMin     int
	trustProxy bool
	limiters   map[string]*limiterEntry
	lastSweep  time.Time
	now        func() time.Time
}

// newLoginLimiter allows perMinute attempts per IP; zero or less disables limiting.
// With trustProxy the client is taken from X-Forwarded-For.
func newLoginLimiter(perMinute int, trustProxy bool) *loginLimiter {
	return &loginLimiter{
		perMin:     perMinute,
		trustProxy: trustProxy,
		limiters:   make(map[string]*limiterEntry),
		now:        time.Now,
	}
}

func (l *loginLimiter) allow(r *http.Request) bool {
	if l == nil || l.perMin <= 0 {
		return true
	}
	ip := clientIP(r, l.trustProxy)
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= limiterSweepPeriod || len(l.limiters) >= maxLimiterEntries {
		l.sweep(now)
	}
	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.lim.AllowN(now, 1)
}

// sweep drops idle entries, then the least recently seen ones while the map is full.
// Callers hold l.mu.
func (l *loginLimiter) sweep(now time.Time) {
	l.lastSweep = now
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	for len(l.limiters) >= maxLimiterEntries {
		var oldestIP string
		var oldest time.Time
		for ip, e := range l.limiters {
			if oldestIP == "" || e.lastSeen.Before(oldest) {
				oldestIP, oldest = ip, e.lastSeen
			}
		}
		delete(l.limiters, oldestIP)
	}
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// clientIP returns the connection's remote host. The first X-Forwarded-For
// hop is used only when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
