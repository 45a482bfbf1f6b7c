package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes how to reach Redis. Timeouts are in seconds.
type Config struct {
	URL          string
	ReadTimeout  int
	WriteTimeout int
	DialTimeout  int
}

// New parses the URL, applies timeouts and pings the server.
func (r *Config) New(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, err
	}

	if r.ReadTimeout > 0 {
		opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	}
	if r.WriteTimeout > 0 {
		opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	}
	if r.DialTimeout > 0 {
		opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
