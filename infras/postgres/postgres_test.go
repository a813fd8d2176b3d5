package postgres_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/config"
	"ofcoz/infras/postgres"
)

func TestDSN(t *testing.T) {
	pg := config.Postgres{Prefix: "dev_"}
	endpoint := config.DBEndpoint{
		Host:     "db.internal",
		Port:     "6543",
		Username: "reader",
		Password: "s3cr#t",
		Name:     "ofcoz",
		Timezone: "Asia/Hong_Kong",
		SSLMode:  "require",
	}

	parsed, err := url.Parse(postgres.DSN(pg, endpoint, url.Values{"application_name": {"ofcoz-api"}}))
	require.NoError(t, err)

	assert.Equal(t, "db.internal:6543", parsed.Host)
	assert.Equal(t, "/dev_ofcoz", parsed.Path)
	assert.Equal(t, "reader", parsed.User.Username())

	query := parsed.Query()
	assert.Equal(t, "require", query.Get("sslmode"))
	assert.Equal(t, "Asia/Hong_Kong", query.Get("timezone"))
	assert.Equal(t, "ofcoz-api", query.Get("application_name"))
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "ofcoz", postgres.DatabaseName(config.Postgres{}, "ofcoz"))
	assert.Equal(t, "ci_ofcoz", postgres.DatabaseName(config.Postgres{Prefix: "ci_"}, "ofcoz"))
}
