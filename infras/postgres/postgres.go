package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"ofcoz/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits traffic between the read replica and the primary. Both may point at the same
// server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect("read", pg, pg.Read),
		Write: connect("write", pg, pg.Write),
	}
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("pool", name).Msg("failed to close database pool")
		}
	}
}

// DatabaseName applies the optional environment prefix, e.g. "staging_" + "ofcoz".
func DatabaseName(pg config.Postgres, name string) string {
	return pg.Prefix + name
}

// DSN renders a postgres:// URL for the endpoint. Extra query options are merged after sslmode.
func DSN(pg config.Postgres, endpoint config.DBEndpoint, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + DatabaseName(pg, endpoint.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries MaxRetry times before giving up, the database container often starts after the app.
func connect(pool string, pg config.Postgres, endpoint config.DBEndpoint) *sqlx.DB {
	logger := log.With().
		Str("pool", pool).
		Str("host", endpoint.Host).
		Str("database", DatabaseName(pg, endpoint.Name)).
		Logger()

	attempts := max(pg.MaxRetry, 1)

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, DSN(pg, endpoint, nil))
		if err == nil {
			configurePool(db, pg)
			logger.Info().Msg("connected to database")

			return db
		}

		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Msg("database not reachable yet")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Err(fmt.Errorf("after %d attempts: %w", attempts, lastErr)).Msg("giving up on database")

	return nil
}

func configurePool(db *sqlx.DB, pg config.Postgres) {
	db.SetMaxOpenConns(pg.MaxOpenConns)
	db.SetMaxIdleConns(pg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetime) * time.Minute)
}
