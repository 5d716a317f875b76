package pagination

import (
	"net/url"
	"strconv"
	"strings"

	"thanksboard/internal/common"
)

const (
	DefaultTake = 10
	MaxTake     = 100

	// NoMatchCursor is returned by tag-set listings whose precursor found nothing.
	// It ends pagination like a null cursor and is never a real bound.
	NoMatchCursor int64 = -1
)

// Cursor is the exclusive id bound of the next page. The zero value means no cursor.
type Cursor struct {
	id  int64
	set bool
}

var NoCursor = Cursor{}

func After(id int64) Cursor {
	if id <= 0 {
		return NoCursor
	}
	return Cursor{id: id, set: true}
}

func (c Cursor) ID() (int64, bool) {
	return c.id, c.set
}

type Direction int

const (
	Desc Direction = iota
	Asc
)

func (d Direction) keyword() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// comparison is the operator that keeps rows strictly after the cursor.
func (d Direction) comparison() string {
	if d == Asc {
		return ">"
	}
	return "<"
}

// Request is the parsed take/cursor/order triple of a list endpoint.
type Request struct {
	Take   int
	Cursor Cursor
	Order  Direction
}

// ParseRequest reads take, cursor and order from a query string.
// A missing, zero or -1 cursor means the first page.
func ParseRequest(values url.Values) (Request, error) {
	req := Request{Take: DefaultTake, Cursor: NoCursor, Order: Desc}

	if raw := values.Get("take"); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil || take < 1 || take > MaxTake {
			return req, common.BadRequest("take must be between 1 and 100")
		}
		req.Take = take
	}

	if raw := values.Get("cursor"); raw != "" && raw != "null" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < NoMatchCursor {
			return req, common.BadRequest("invalid cursor")
		}
		req.Cursor = After(id)
	}

	switch strings.ToLower(values.Get("order")) {
	case "", "desc":
	case "asc":
		req.Order = Asc
	default:
		return req, common.BadRequest("order must be asc or desc")
	}
	return req, nil
}
