package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// tokenBucket recarga `refill` tokens por intervalo completo transcurrido y consume uno por llamada.
// Devuelve {permitido, tokens restantes, ms hasta la próxima recarga}.
var tokenBucket = goredis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill > 0 then
	local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill)
		last_refill = last_refill + intervals * interval_ms
	end
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return {allowed, tokens, retry_ms}
`)

// Decision resultado de una consulta al limitador.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter token bucket distribuido; una clave por cliente y ruta.
type RateLimiter struct {
	rdb            goredis.Scripter
	capacity       int
	refillInterval time.Duration
	prefix         string
	now            func() time.Time
}

// NewRateLimiter capacity tokens por clave, uno nuevo cada refillInterval.
func NewRateLimiter(rdb goredis.Scripter, capacity int, refillInterval time.Duration, prefix string) *RateLimiter {
	if capacity <= 0 {
		capacity = 20
	}
	if refillInterval <= 0 {
		refillInterval = 3 * time.Second
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimiter{rdb: rdb, capacity: capacity, refillInterval: refillInterval, prefix: prefix, now: time.Now}
}

// Allow consume un token de la clave. Un error de Redis se devuelve y el llamador decide (fail-open).
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	// La clave vive lo que tarda el bucket en llenarse de nuevo, con un mínimo de un minuto.
	ttl := time.Duration(l.capacity) * l.refillInterval
	if ttl < time.Minute {
		ttl = time.Minute
	}
	vals, err := tokenBucket.Run(ctx, l.rdb, []string{l.prefix + ":" + key},
		l.now().UnixMilli(), l.capacity, 1, l.refillInterval.Milliseconds(), int64(ttl/time.Second),
	).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("rate limit: respuesta inesperada %v", vals)
	}
	return Decision{
		Allowed:    asInt64(vals[0]) == 1,
		Limit:      l.capacity,
		Remaining:  asInt64(vals[1]),
		RetryAfter: time.Duration(asInt64(vals[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}
