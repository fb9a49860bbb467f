package sqldb

import "testing"

func TestRebind(t *testing.T) {
	q := `INSERT INTO runs (id, filename) VALUES (?,?)`
	pg := &Repository{driver: DriverPostgres}
	if got := pg.rebind(q); got != `INSERT INTO runs (id, filename) VALUES ($1,$2)` {
		t.Errorf("postgres: %q", got)
	}
	lite := &Repository{driver: DriverSQLite}
	if got := lite.rebind(q); got != q {
		t.Errorf("sqlite: %q", got)
	}
}
