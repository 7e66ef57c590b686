package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/inventrack?sslmode=disable", "pgx5://u:p@localhost:5432/inventrack?sslmode=disable"},
		{"postgresql://localhost/inventrack", "pgx5://localhost/inventrack"},
		{"pgx5://localhost/inventrack", "pgx5://localhost/inventrack"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DriverURL(tt.in))
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		if base, ok := strings.CutSuffix(n, ".up.sql"); ok {
			ups[base] = true
		}
		if base, ok := strings.CutSuffix(n, ".down.sql"); ok {
			downs[base] = true
		}
	}
	assert.Equal(t, ups, downs)
}
