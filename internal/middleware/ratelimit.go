package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGeneralRPM = 100
	defaultAuthRPM    = 10

	ClassGeneral = "general"
	ClassAuth    = "auth"
)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter counts requests per key. Implementations fail open.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close() error
}

type RateLimitMiddleware struct {
	limiter    Limiter
	generalRPM int
	authRPM    int
	proxies    TrustedProxies
	onLimited  func(class string)
}

// NewRateLimitMiddleware treats zero as the default limit and a negative value
// as unlimited.
func NewRateLimitMiddleware(limiter Limiter, generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM == 0 {
		generalRPM = defaultGeneralRPM
	}
	if authRPM == 0 {
		authRPM = defaultAuthRPM
	}
	if limiter == nil {
		limiter = NewMemoryLimiter()
	}

	return &RateLimitMiddleware{
		limiter:    limiter,
		generalRPM: generalRPM,
		authRPM:    authRPM,
	}
}

// TrustProxies makes the limiter key on the forwarded client address when the
// socket peer is one of proxies.
func (m *RateLimitMiddleware) TrustProxies(proxies TrustedProxies) {
	m.proxies = proxies
}

// OnLimited registers a hook run for every rejected request.
func (m *RateLimitMiddleware) OnLimited(fn func(class string)) {
	m.onLimited = fn
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class, limit := ClassGeneral, m.generalRPM
		if isAuthRoute(r) {
			class, limit = ClassAuth, m.authRPM
		}

		if limit < 0 {
			next.ServeHTTP(w, r)
			return
		}

		decision := m.limiter.Allow(r.Context(), class+":"+m.proxies.ClientIP(r), limit, time.Minute)
		if !decision.Allowed {
			if m.onLimited != nil {
				m.onLimited(class)
			}
			retry := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isAuthRoute matches the credential-accepting endpoints: login and registration.
func isAuthRoute(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	path := strings.TrimSuffix(strings.ToLower(r.URL.Path), "/")
	return path == "/login" || path == "/users"
}

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: map[string]*memoryEntry{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, exists := l.entries[key]
	if !exists {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.gcLocked(now)

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{Allowed: false, RetryAfter: window}
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}
	}
	return Decision{Allowed: true}
}

func (l *MemoryLimiter) Close() error {
	return nil
}

func (l *MemoryLimiter) gcLocked(now time.Time) {
	if len(l.entries) < 1000 {
		return
	}

	cutoff := now.Add(-10 * time.Minute)
	for key, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}
