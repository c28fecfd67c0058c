package diagnostics

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/database"
)

// DatabaseProbe opens a connection to DATABASE_URL and closes it again.
// Postgres URLs go straight through pgx; other schemes use the same gorm
// dialectors the server uses.
type DatabaseProbe struct {
	URL string
}

func (p *DatabaseProbe) Name() string { return "database" }

func (p *DatabaseProbe) Run(ctx context.Context) Result {
	if p.URL == "" {
		return result(p.Name(), StatusUnreachable, "DATABASE_URL is not set")
	}

	if dsn, ok := database.PostgresURL(p.URL); ok {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return result(p.Name(), StatusUnreachable, "connect: %v", err)
		}
		if err := conn.Ping(ctx); err != nil {
			_ = conn.Close(ctx)
			return result(p.Name(), StatusDegraded, "ping: %v", err)
		}
		_ = conn.Close(ctx)
		return result(p.Name(), StatusOK, "postgres connection established")
	}

	cfg := config.DatabaseConfig{URL: p.URL, MaxOpenConns: 1, MaxIdleConns: 1}
	if dl, ok := ctx.Deadline(); ok {
		cfg.PingTimeout = timeUntil(dl)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return result(p.Name(), StatusUnreachable, "%v", err)
	}
	_ = database.Close(db)
	return result(p.Name(), StatusOK, "%s connection established", database.Scheme(p.URL))
}
