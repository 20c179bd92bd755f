package dto

import "testing"

func TestPageQuery_Defaults(t *testing.T) {
	var q PageQuery
	if q.GetPage() != 1 || q.GetLimit() != 10 || q.GetOffset() != 0 {
		t.Errorf("unexpected defaults: page=%d limit=%d offset=%d", q.GetPage(), q.GetLimit(), q.GetOffset())
	}
	if q.GetOrder() != "desc" {
		t.Errorf("expected desc, got %s", q.GetOrder())
	}
}

func TestPageQuery_Offset(t *testing.T) {
	q := PageQuery{Page: 3, Limit: 20}
	if q.GetOffset() != 40 {
		t.Errorf("expected offset 40, got %d", q.GetOffset())
	}
	q.Limit = 500
	if q.GetLimit() != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, q.GetLimit())
	}
}

func TestPageQuery_OrderBy(t *testing.T) {
	columns := map[string]string{"id": "id", "fullName": "full_name", "createdAt": "created_at"}

	q := PageQuery{SortBy: "fullName", Order: "ASC"}
	if got := q.OrderBy(columns, "createdAt"); got != "full_name asc" {
		t.Errorf("got %q", got)
	}

	q = PageQuery{SortBy: "password_hash; drop table users"}
	if got := q.OrderBy(columns, "createdAt"); got != "created_at desc" {
		t.Errorf("unknown sortBy must fall back, got %q", got)
	}
}

func TestPageQuery_Search(t *testing.T) {
	q := PageQuery{Search: "  alice "}
	if q.GetSearch() != "alice" {
		t.Errorf("got %q", q.GetSearch())
	}
}
