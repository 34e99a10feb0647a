package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	query := `INSERT INTO rainfall (region, seq, mm) VALUES (?, ?, ?)`

	assert.Equal(t, query, (&Store{driver: DriverSQLite}).rebind(query))
	assert.Equal(t,
		`INSERT INTO rainfall (region, seq, mm) VALUES ($1, $2, $3)`,
		(&Store{driver: DriverPostgres}).rebind(query),
	)
}
