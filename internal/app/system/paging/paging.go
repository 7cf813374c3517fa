// internal/app/system/paging/paging.go
package paging

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the default number of rows returned by paged API listings.
// Keep this as an int because call sites add one for look-ahead and then
// cast to int64 for Mongo Find().SetLimit().
const PageSize = 50

// MaxPageSize caps caller-supplied per_page values.
const MaxPageSize = 100

// LimitPlusOne returns size+1 as int64 for look-ahead pagination (fetch one
// extra document to detect hasNext).
func LimitPlusOne(size int) int64 { return int64(size + 1) }

// ParseAfter extracts the "after" cursor from the request. The cursor is the
// hex ObjectID of the last child course on the previous page; listings
// resume strictly after it. Returns NilObjectID (start from the beginning)
// when absent or malformed — a bad cursor restarts the listing rather than
// erroring, since cursors are opaque and best-effort.
func ParseAfter(r *http.Request) primitive.ObjectID {
	s := query.Get(r, "after")
	if s == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// ParsePageSize extracts the "per_page" query parameter, clamped to
// [1, MaxPageSize]. Returns PageSize when absent or invalid.
func ParsePageSize(r *http.Request) int {
	s := query.Get(r, "per_page")
	if s == "" {
		return PageSize
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return PageSize
		}
		n = n*10 + int(c-'0')
		if n > MaxPageSize {
			return MaxPageSize
		}
	}
	if n < 1 {
		return PageSize
	}
	return n
}

// TrimPage trims a slice fetched with LimitPlusOne down to size, in place,
// and reports whether a further page exists.
func TrimPage[T any](rows *[]T, size int) (hasNext bool) {
	if len(*rows) > size {
		*rows = (*rows)[:size]
		return true
	}
	return false
}

// NextCursor returns the cursor string for the page after rows, using idFn
// to extract the sort key from the last element. Empty when rows is empty.
func NextCursor[T any](rows []T, idFn func(T) primitive.ObjectID) string {
	if len(rows) == 0 {
		return ""
	}
	return idFn(rows[len(rows)-1]).Hex()
}
