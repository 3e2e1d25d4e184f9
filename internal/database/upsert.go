package database

import (
	"fmt"
	"reflect"

	"gorm.io/gorm/clause"
)

const DefaultChunkSize = 1000

// Upsert writes rows in chunks with an insert-or-update keyed on conflictCols.
// rows must be a slice of gorm models. Existing rows sharing the conflict key
// are overwritten; rows absent from the batch are left alone. Empty input is a
// no-op.
func (d *Database) Upsert(rows interface{}, conflictCols []string, chunkSize int) error {
	rv := reflect.ValueOf(rows)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("upsert expects a slice, got %T", rows)
	}
	if rv.Len() == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	cols := make([]clause.Column, 0, len(conflictCols))
	for _, c := range conflictCols {
		cols = append(cols, clause.Column{Name: c})
	}

	tx := d.DB.Clauses(clause.OnConflict{
		Columns:   cols,
		UpdateAll: true,
	}).CreateInBatches(rows, chunkSize)
	if tx.Error != nil {
		return fmt.Errorf("upsert failed: %w", tx.Error)
	}

	return nil
}
