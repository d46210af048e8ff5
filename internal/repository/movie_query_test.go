package repository

import (
	"strings"
	"testing"
	"time"
)

func intp(n int) *int { return &n }

func datep(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestWhereClauseAlwaysScopesByUser(t *testing.T) {
	cond, args := MovieQuery{}.whereClause(7)
	if cond != "m.user_id = ?" {
		t.Fatalf("cond = %q, want user scope only", cond)
	}
	if len(args) != 1 || args[0] != uint64(7) {
		t.Fatalf("args = %v, want [7]", args)
	}
}

func TestWhereClauseOneClausePerFilter(t *testing.T) {
	tests := []struct {
		name     string
		q        MovieQuery
		wantFrag string
		wantArg  any
	}{
		{"search", MovieQuery{Search: "Chefão"}, "LOWER(m.title) LIKE ?", "%chefão%"},
		{"min duration", MovieQuery{MinDuration: intp(90)}, "m.duration >= ?", 90},
		{"max duration", MovieQuery{MaxDuration: intp(180)}, "m.duration <= ?", 180},
		{"start date", MovieQuery{StartDate: datep("2020-01-01")}, "m.release_date >= ?", *datep("2020-01-01")},
		{"end date", MovieQuery{EndDate: datep("2023-12-31")}, "m.release_date <= ?", *datep("2023-12-31")},
		{"genre", MovieQuery{Genre: "Drama"}, "LOWER(g.name) = ?", "drama"},
		{"classification", MovieQuery{MaxClassification: intp(16)}, "m.classification <= ?", 16},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cond, args := tc.q.whereClause(1)
			if !strings.Contains(cond, tc.wantFrag) {
				t.Fatalf("cond = %q, missing %q", cond, tc.wantFrag)
			}
			if got := strings.Count(cond, " AND "); got != 1 {
				t.Fatalf("clause count = %d, want exactly one filter clause", got+1)
			}
			if len(args) != 2 {
				t.Fatalf("args = %v, want scope + one filter arg", args)
			}
			if tc.name == "search" {
				s, ok := args[1].(string)
				if !ok || !strings.HasPrefix(s, "%") || !strings.HasSuffix(s, "%") {
					t.Fatalf("search arg = %v, want %%-wrapped substring", args[1])
				}
				if s != strings.ToLower(s) {
					t.Fatalf("search arg %q not lowercased", s)
				}
			} else if args[1] != tc.wantArg {
				t.Fatalf("filter arg = %v, want %v", args[1], tc.wantArg)
			}
		})
	}
}

func TestWhereClauseZeroBoundIsARealFilter(t *testing.T) {
	// A pointer to zero must add a clause; only a nil pointer means absent.
	cond, args := MovieQuery{MinDuration: intp(0)}.whereClause(1)
	if !strings.Contains(cond, "m.duration >= ?") {
		t.Fatalf("zero min duration dropped: %q", cond)
	}
	if args[1] != 0 {
		t.Fatalf("arg = %v, want 0", args[1])
	}
}

func TestWhereClauseAllFiltersConjoin(t *testing.T) {
	q := MovieQuery{
		Search:            "x",
		MinDuration:       intp(10),
		MaxDuration:       intp(20),
		StartDate:         datep("2020-01-01"),
		EndDate:           datep("2020-12-31"),
		Genre:             "Ação",
		MaxClassification: intp(12),
	}
	cond, args := q.whereClause(3)
	if got := strings.Count(cond, " AND "); got != 7 {
		t.Fatalf("AND count = %d, want 7", got)
	}
	if len(args) != 8 {
		t.Fatalf("len(args) = %d, want 8", len(args))
	}
	if strings.Contains(cond, " OR ") {
		t.Fatalf("filters must be conjunctive: %q", cond)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
	}
	for _, tc := range tests {
		q := MovieQuery{Page: tc.page, Limit: tc.limit}
		if got := q.offset(); got != tc.want {
			t.Errorf("offset(page=%d, limit=%d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}
