/*
Package sqlite3adapter provides a sqlunits.Adapter that works on
SQLite3 database files.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/sdabuk/marytts/unitdata/sqlunits"
)

const (
	unitsTableCreateStmt = `CREATE TABLE IF NOT EXISTS units (
		unit_index INTEGER PRIMARY KEY,
		byte_values BLOB NOT NULL,
		short_values BLOB NOT NULL,
		continuous_values BLOB NOT NULL)`
	unitInsertStmt  = `INSERT OR REPLACE INTO units (unit_index, byte_values, short_values, continuous_values) VALUES (?, ?, ?, ?)`
	unitSelectStmt  = `SELECT byte_values, short_values, continuous_values FROM units WHERE unit_index = ?`
	unitIterateStmt = `SELECT unit_index, byte_values, short_values, continuous_values FROM units ORDER BY unit_index`
	unitCountStmt   = `SELECT COUNT(*) FROM units`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter
that works on the file's database or an error if it fails to open as
an sqlite3 database.
*/
func New(path string) (sqlunits.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
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
