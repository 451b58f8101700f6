/*
Package pgadapter provides a sqlunits.Adapter that works on PostgreSQL
databases.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of postgres driver
	_ "github.com/lib/pq"
	"github.com/sdabuk/marytts/unitdata/sqlunits"
)

const (
	unitsTableCreateStmt = `CREATE TABLE IF NOT EXISTS units (
		unit_index INTEGER PRIMARY KEY,
		byte_values BYTEA NOT NULL,
		short_values BYTEA NOT NULL,
		continuous_values BYTEA NOT NULL)`
	unitInsertStmt = `INSERT INTO units (unit_index, byte_values, short_values, continuous_values) VALUES ($1, $2, $3, $4)
		ON CONFLICT (unit_index) DO UPDATE SET byte_values = $2, short_values = $3, continuous_values = $4`
	unitSelectStmt  = `SELECT byte_values, short_values, continuous_values FROM units WHERE unit_index = $1`
	unitIterateStmt = `SELECT unit_index, byte_values, short_values, continuous_values FROM units ORDER BY unit_index`
	unitCountStmt   = `SELECT COUNT(*) FROM units`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL connection string and returns an Adapter that
works on the database it points to or an error if it fails to open a
connection.
*/
func New(connString string) (sqlunits.Adapter, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) CreateUnitsTable() error {
	_, err := a.db.Exec(unitsTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running units table creation statement: %v", err)
	}
	return nil
}

func (a *adapter) InsertUnit(unitIndex int, bytes, shorts, continuous []byte) error {
	_, err := a.db.Exec(unitInsertStmt, unitIndex, bytes, shorts, continuous)
	return err
}

func (a *adapter) GetUnit(unitIndex int) ([]byte, []byte, []byte, error) {
	var bytes, shorts, continuous []byte
	err := a.db.QueryRow(unitSelectStmt, unitIndex).Scan(&bytes, &shorts, &continuous)
	if err == sql.ErrNoRows {
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return bytes, shorts, continuous, nil
}

func (a *adapter) IterateUnits(f func(unitIndex int, bytes, shorts, continuous []byte) error) error {
	rows, err := a.db.Query(unitIterateStmt)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var unitIndex int
		var bytes, shorts, continuous []byte
		if err := rows.Scan(&unitIndex, &bytes, &shorts, &continuous); err != nil {
			return err
		}
		if err := f(unitIndex, bytes, shorts, continuous); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (a *adapter) CountUnits() (int, error) {
	var count int
	err := a.db.QueryRow(unitCountStmt).Scan(&count)
	return count, err
}

func (a *adapter) Close() error {
	return a.db.Close()
}
