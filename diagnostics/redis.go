package diagnostics

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type RedisProbe struct {
	URL string
}

func (p *RedisProbe) Name() string { return "redis" }

func (p *RedisProbe) Run(ctx context.Context) Result {
	opts, err := redis.ParseURL(p.URL)
	if err != nil {
		return result(p.Name(), StatusUnreachable, "bad url: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return result(p.Name(), StatusUnreachable, "ping: %v", err)
	}
	return result(p.Name(), StatusOK, "PONG from %s", opts.Addr)
}
