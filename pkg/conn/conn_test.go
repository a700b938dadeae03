package conn

import (
	"path/filepath"
	"testing"

	"mdcodec/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"
)

func TestOptionDSN(t *testing.T) {
	testCases := []struct {
		desc     string
		opt      Option
		expected string
	}{
		{
			desc:     "postgres defaults",
			opt:      Option{},
			expected: "postgres://localhost:5432?sslmode=disable",
		},
		{
			desc: "postgres full",
			opt: Option{
				Host:     "db",
				Port:     6432,
				User:     "md",
				Password: "secret",
				Database: "catalog",
				SSLMode:  "require",
				Params:   map[string]string{"application_name": "mdcodec", "": "skip"},
			},
			expected: "postgres://md:secret@db:6432/catalog?application_name=mdcodec&sslmode=require",
		},
		{
			desc:     "postgres user without password",
			opt:      Option{User: "md", Database: "catalog"},
			expected: "postgres://md@localhost:5432/catalog?sslmode=disable",
		},
		{
			desc:     "conn string wins",
			opt:      Option{Driver: DriverSQLite, Path: "a.db", ConnString: "file::memory:"},
			expected: "file::memory:",
		},
		{
			desc:     "sqlite path",
			opt:      Option{Driver: DriverSQLite, Path: "catalog.db"},
			expected: "catalog.db",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dsn, err := tc.opt.dsn()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dsn)
		})
	}
}

func TestOptionDSNErrors(t *testing.T) {
	_, err := Option{Driver: DriverSQLite}.dsn()
	require.True(t, errors.Is(err, exception.ErrInvalidArgument))

	_, err = Option{Driver: "mysql"}.dsn()
	require.True(t, errors.Is(err, exception.ErrArgumentUnsupported))

	_, err = New(Option{Driver: "mysql", ConnString: "x"})
	require.True(t, errors.Is(err, exception.ErrArgumentUnsupported))
}

func TestNewSQLite(t *testing.T) {
	client, err := New(Option{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "conn.db")})
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, client.Driver())
	require.NoError(t, client.DB().Exec("SELECT 1").Error)
	require.NoError(t, client.Close())

	var nilClient *Client
	assert.Nil(t, nilClient.DB())
	assert.NoError(t, nilClient.Close())
}
