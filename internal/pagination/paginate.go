package pagination

import (
	"errors"

	"gorm.io/gorm"
)

// Page is the list-endpoint envelope. A nil Cursor means there are no more pages.
type Page[T any] struct {
	List   []T    `json:"list"`
	Cursor *int64 `json:"cursor"`
}

var ErrInvalidTake = errors.New("page size must be positive")

// Paginate over-fetches one row to learn whether another page exists; it never counts.
// The next cursor is the id of the last row kept, not of the extra row.
func Paginate[T any](take int, fetch func(limit int) ([]T, error), idOf func(T) int64) (Page[T], error) {
	if take <= 0 {
		return Page[T]{}, ErrInvalidTake
	}

	rows, err := fetch(take + 1)
	if err != nil {
		return Page[T]{}, err
	}
	if rows == nil {
		rows = []T{}
	}

	if len(rows) <= take {
		return Page[T]{List: rows, Cursor: nil}, nil
	}

	rows = rows[:take]
	next := idOf(rows[take-1])
	return Page[T]{List: rows, Cursor: &next}, nil
}

// Fetch runs a composed query through Paginate.
func Fetch[T any](q *gorm.DB, take int, idOf func(T) int64) (Page[T], error) {
	return Paginate(take, func(limit int) ([]T, error) {
		var rows []T
		if err := q.Limit(limit).Find(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}, idOf)
}

// NoMatches is the page for a tag set no item carries.
func NoMatches[T any]() Page[T] {
	c := NoMatchCursor
	return Page[T]{List: []T{}, Cursor: &c}
}

// Map converts a page's rows while keeping its cursor.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{List: make([]U, len(p.List)), Cursor: p.Cursor}
	for i, row := range p.List {
		out.List[i] = fn(row)
	}
	return out
}
