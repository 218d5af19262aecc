// Package upsert is the lookup-or-create primitive every repository uses for
// entities that are identified by column values rather than by id.
package upsert

import (
	"fmt"
	"reflect"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

// Keys maps column names to the values an existing row must match exactly.
// A nil value (or nil pointer) matches NULL, not "any".
type Keys map[string]any

// AllNull reports whether every key value is null. An empty key set counts as
// all-null.
func (k Keys) AllNull() bool {
	for _, v := range k {
		if normalize(v) != nil {
			return false
		}
	}
	return true
}

func (k Keys) columns() []string {
	cols := make([]string, 0, len(k))
	for c := range k {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// GetOrCreate returns the first row (by primary key) whose columns equal keys,
// or persists build() when none exists. build must return an entity carrying
// the key values plus any defaults; defaults never take part in the lookup.
//
// When every key is null a new row is always created; anonymous entities are
// never merged.
//
// The bool result is true when a row was created.
func GetOrCreate[T any](dbc dbctx.Context, db *gorm.DB, keys Keys, build func() *T) (*T, bool, error) {
	t := dbc.Tx
	if t == nil {
		t = db
	}
	if t == nil {
		return nil, false, fmt.Errorf("upsert: nil db")
	}
	t = t.WithContext(dbc.Ctx)

	if !keys.AllNull() {
		q := t.Model(new(T))
		for _, col := range keys.columns() {
			v := normalize(keys[col])
			if v == nil {
				q = q.Where(fmt.Sprintf("%s IS NULL", quote(t, col)))
				continue
			}
			q = q.Where(fmt.Sprintf("%s = ?", quote(t, col)), v)
		}
		var found []T
		byPK := clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}
		if err := q.Order(byPK).Limit(1).Find(&found).Error; err != nil {
			return nil, false, fmt.Errorf("upsert: lookup: %w", err)
		}
		if len(found) > 0 {
			return &found[0], false, nil
		}
	}

	obj := build()
	if obj == nil {
		return nil, false, fmt.Errorf("upsert: build returned nil")
	}
	if err := t.Create(obj).Error; err != nil {
		return nil, false, fmt.Errorf("upsert: create: %w", err)
	}
	return obj, true, nil
}

// normalize collapses typed nil pointers to untyped nil and dereferences
// non-nil pointers so drivers bind the underlying value.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func quote(db *gorm.DB, col string) string {
	return db.Statement.Quote(col)
}
