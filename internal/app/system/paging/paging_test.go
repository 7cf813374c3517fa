package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLimitPlusOne(t *testing.T) {
	if got := LimitPlusOne(PageSize); got != int64(PageSize+1) {
		t.Errorf("LimitPlusOne(PageSize) = %d, want %d", got, PageSize+1)
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name     string
		rows     []int
		size     int
		wantRows int
		wantNext bool
	}{
		{name: "short page", rows: []int{1, 2, 3}, size: 5, wantRows: 3, wantNext: false},
		{name: "exact page", rows: []int{1, 2, 3}, size: 3, wantRows: 3, wantNext: false},
		{name: "page with extra", rows: []int{1, 2, 3, 4}, size: 3, wantRows: 3, wantNext: true},
		{name: "empty", rows: nil, size: 3, wantRows: 0, wantNext: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := tt.rows
			hasNext := TrimPage(&rows, tt.size)
			if len(rows) != tt.wantRows {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.wantRows)
			}
			if hasNext != tt.wantNext {
				t.Errorf("hasNext = %v, want %v", hasNext, tt.wantNext)
			}
		})
	}
}

func TestParseAfter(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name   string
		target string
		want   primitive.ObjectID
	}{
		{name: "absent", target: "/courses", want: primitive.NilObjectID},
		{name: "valid", target: "/courses?after=" + id.Hex(), want: id},
		{name: "malformed restarts", target: "/courses?after=not-an-id", want: primitive.NilObjectID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParseAfter(r); got != tt.want {
				t.Errorf("ParseAfter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "absent", target: "/courses", want: PageSize},
		{name: "explicit", target: "/courses?per_page=10", want: 10},
		{name: "clamped high", target: "/courses?per_page=5000", want: MaxPageSize},
		{name: "zero", target: "/courses?per_page=0", want: PageSize},
		{name: "garbage", target: "/courses?per_page=ten", want: PageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ParsePageSize(r); got != tt.want {
				t.Errorf("ParsePageSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextCursor(t *testing.T) {
	type row struct{ id primitive.ObjectID }

	if got := NextCursor(nil, func(r row) primitive.ObjectID { return r.id }); got != "" {
		t.Errorf("NextCursor(empty) = %q, want empty", got)
	}

	last := primitive.NewObjectID()
	rows := []row{{id: primitive.NewObjectID()}, {id: last}}
	if got := NextCursor(rows, func(r row) primitive.ObjectID { return r.id }); got != last.Hex() {
		t.Errorf("NextCursor() = %q, want %q", got, last.Hex())
	}
}
