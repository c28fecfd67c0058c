package database

import (
	"errors"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/models"
	"github.com/clubsantiago/sistema-billar/utils"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		url    string
		driver string
	}{
		{"postgres://billar:pw@localhost:5432/billar", "postgres"},
		{"postgresql://billar@localhost/billar?sslmode=disable", "postgres"},
		{"postgresql+psycopg2://billar:pw@localhost/billar", "postgres"},
		{"mysql://root:pw@localhost:3306/billar", "mysql"},
		{"sqlite://billar.db", "sqlite"},
		{"file::memory:?cache=shared", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			d, err := Dialector(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, d.Name())
		})
	}
}

func TestDialector_Unsupported(t *testing.T) {
	for _, raw := range []string{"", "localhost:5432", "mongodb://localhost/billar", "sqlite://"} {
		_, err := Dialector(raw)
		assert.True(t, errors.Is(err, ErrUnsupportedURL), "url %q", raw)
	}
}

func TestPostgresURL(t *testing.T) {
	dsn, ok := PostgresURL("postgresql+psycopg2://billar:pw@localhost/billar")
	assert.True(t, ok)
	assert.Equal(t, "postgres://billar:pw@localhost/billar", dsn)

	_, ok = PostgresURL("mysql://root@localhost/billar")
	assert.False(t, ok)
	assert.Equal(t, "mysql", Scheme("MySQL://root@localhost/billar"))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := MySQLDSN("mysql://root:pw@db.local/billar?charset=utf8mb4")
	require.NoError(t, err)

	cfg, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "billar", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	utils.SilenceLoggers()

	db, err := Open(config.DatabaseConfig{
		URL:             "file:dbtest_open?mode=memory&cache=shared",
		MaxOpenConns:    2,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		PingTimeout:     time.Second,
	})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	// Running it twice must be harmless.
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Table{}))
	assert.True(t, db.Migrator().HasIndex(&models.Table{}, "idx_tables_name"))
}
