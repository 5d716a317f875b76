package pagination

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"thanksboard/internal/common"
)

// Table describes the listable entity to the composer.
type Table struct {
	Name           string
	Columns        []string // explicit projection
	SearchColumns  []string
	ActiveColumn   string // empty when the table has no activity flag
	OwnerColumn    string
	AnsweredColumn string
}

func (t Table) col(name string) string {
	return t.Name + "." + name
}

// Query is everything the composer needs for one page.
type Query struct {
	Table  Table
	List   ListType
	Cursor Cursor
	Order  Direction
}

// Compose builds the filtered, ordered, cursor-bounded query without a limit.
// The business predicate always applies; only the id bound depends on the cursor.
func Compose(db *gorm.DB, q Query) (*gorm.DB, error) {
	t := q.Table
	tx := db.Table(t.Name)
	if len(t.Columns) > 0 {
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = t.col(c)
		}
		tx = tx.Select(cols)
	}

	switch lt := q.List.(type) {
	case All:
		tx = onlyActive(tx, t, true)
	case Mine:
		if t.OwnerColumn == "" {
			return nil, fmt.Errorf("table %s has no owner column", t.Name)
		}
		tx = tx.Where(t.col(t.OwnerColumn)+" = ?", lt.OwnerID)
		if lt.Answered != nil {
			if t.AnsweredColumn == "" {
				return nil, common.BadRequest("answered filter is not supported here")
			}
			tx = tx.Where(t.col(t.AnsweredColumn)+" = ?", *lt.Answered)
		}
	case Inactive:
		if t.ActiveColumn == "" {
			return nil, fmt.Errorf("table %s has no activity column", t.Name)
		}
		tx = onlyActive(tx, t, false)
	case Search:
		keyword := strings.TrimSpace(lt.Keyword)
		if keyword == "" {
			return nil, common.BadRequest("keyword is required")
		}
		if len(t.SearchColumns) == 0 {
			return nil, fmt.Errorf("table %s has no search columns", t.Name)
		}
		pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
		clauses := make([]string, len(t.SearchColumns))
		args := make([]interface{}, len(t.SearchColumns))
		for i, c := range t.SearchColumns {
			clauses[i] = "LOWER(" + t.col(c) + ") LIKE ?"
			args[i] = pattern
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
		tx = onlyActive(tx, t, true)
	case ByTagSet:
		if len(lt.IDs) == 0 {
			return nil, common.BadRequest("tag-set listing needs at least one id")
		}
		tx = tx.Where(t.col("id")+" IN ?", lt.IDs)
		tx = onlyActive(tx, t, true)
	default:
		return nil, fmt.Errorf("unknown list type %T", q.List)
	}

	return Bounded(tx, t.col("id"), q.Cursor, q.Order), nil
}

// Bounded keeps rows strictly after the cursor on column and orders by it.
func Bounded(tx *gorm.DB, column string, c Cursor, d Direction) *gorm.DB {
	if id, ok := c.ID(); ok {
		tx = tx.Where(column+" "+d.comparison()+" ?", id)
	}
	return tx.Order(column + " " + d.keyword())
}

func onlyActive(tx *gorm.DB, t Table, active bool) *gorm.DB {
	if t.ActiveColumn == "" {
		return tx
	}
	return tx.Where(t.col(t.ActiveColumn)+" = ?", active)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
