package sqlstore

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/kailas-cloud/wikisearch/internal/db/sqlstore/migrations"
)

// Dialect captures the SQL differences between the supported engines.
type Dialect struct {
	Name       string
	Migrations fs.FS
	Dir        string
	// Numbered placeholders ($1, $2...) instead of '?'.
	Numbered bool
	// IncrExpr adds the bound delta to the stored counter.
	IncrExpr string
}

// SQLite is the modernc.org/sqlite dialect.
var SQLite = Dialect{
	Name:       "sqlite",
	Migrations: migrations.SQLite,
	Dir:        "sqlite",
	IncrExpr:   "CAST(CAST(kv.value AS INTEGER) + excluded.value AS TEXT)",
}

// Postgres is the pgx stdlib dialect.
var Postgres = Dialect{
	Name:       "postgres",
	Migrations: migrations.Postgres,
	Dir:        "postgres",
	Numbered:   true,
	IncrExpr:   "(CAST(kv.value AS BIGINT) + CAST(excluded.value AS BIGINT))::TEXT",
}

// rebind rewrites '?' placeholders for dialects with numbered parameters.
func (d Dialect) rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
