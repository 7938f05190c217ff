package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ParseDurationEnv parses an env value as time.Duration:
// - "10s", "5m" etc. (time.ParseDuration)
// - bare number "10" = seconds (10s)
func ParseDurationEnv(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	// Strip optional surrounding quotes: "10s" or '10s'
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}

// RedisURL is what ParseRedisURL extracts from a redis:// or rediss:// URL.
type RedisURL struct {
	Addr     string
	Username string
	Password string
	DB       int
	TLS      bool
}

// ParseRedisURL parses a redis:// or rediss:// URL with redis.ParseURL.
// rediss:// turns TLS on.
func ParseRedisURL(s string) (RedisURL, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return RedisURL{}, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return RedisURL{}, fmt.Errorf("scheme must be redis or rediss, got %q", u.Scheme)
	}
	// redis.ParseURL falls back to localhost; a URL without a host is a config mistake.
	if u.Host == "" {
		return RedisURL{}, fmt.Errorf("missing host in Redis URL")
	}
	opts, err := redis.ParseURL(s)
	if err != nil {
		return RedisURL{}, err
	}
	return RedisURL{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
		TLS:      opts.TLSConfig != nil,
	}, nil
}
