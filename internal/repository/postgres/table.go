package postgres

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scope = func(*gorm.DB) *gorm.DB

// table holds the shared CRUD behavior for one entity type.
//
// dateCol orders lists and bounds day windows, activeCol (if set) hides
// soft deleted rows from lists, and touchCol is refreshed on every update.
type table[T any] struct {
	db        *gorm.DB
	dateCol   string
	activeCol string
	touchCol  string
}

func (t table[T]) find(ctx context.Context, scopes ...scope) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).Scopes(scopes...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t table[T]) list(ctx context.Context, scopes ...scope) ([]*T, error) {
	q := t.db.WithContext(ctx).Scopes(scopes...)
	if t.activeCol != "" {
		q = q.Where(t.activeCol+" = ?", true)
	}

	rows := make([]*T, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (t table[T]) create(ctx context.Context, row *T) error {
	return t.db.WithContext(ctx).Create(row).Error
}

// update applies cols to the rows matched by scopes and returns the first
// updated row. It never inserts; no match is domain.ErrNotFound.
func (t table[T]) update(ctx context.Context, cols map[string]any, scopes ...scope) (*T, error) {
	if len(cols) == 0 {
		row, err := t.find(ctx, scopes...)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, domain.ErrNotFound
		}
		return row, nil
	}

	set := maps.Clone(cols)
	if t.touchCol != "" {
		set[t.touchCol] = time.Now()
	}

	var rows []T
	res := t.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Scopes(scopes...).
		Updates(set)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func (t table[T]) newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order(t.dateCol + " DESC")
}

func (t table[T]) oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order(t.dateCol + " ASC")
}

// since keeps rows whose date column falls within the last days. days <= 0 keeps everything.
func (t table[T]) since(days int) scope {
	return func(db *gorm.DB) *gorm.DB {
		if days <= 0 {
			return db
		}
		return db.Where(t.dateCol+" >= ?", time.Now().AddDate(0, 0, -days))
	}
}

func whereEq(col string, value any) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", value)
	}
}

func limit(n int) scope {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}
