package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/repository"
)

func bindOn(t *testing.T, body string) (*echo.Echo, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/movies/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec)
}

func TestBindUpdateBodyGenreDistinction(t *testing.T) {
	// Omitted genreIds must stay nil: associations untouched.
	_, c := bindOn(t, `{"title":"New title"}`)
	upd, msg := bindUpdateBody(c)
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if upd.GenreIDs != nil {
		t.Error("omitted genreIds bound as a replace")
	}
	if upd.Title == nil || *upd.Title != "New title" {
		t.Error("title not bound")
	}

	// Explicit empty array must bind as clear-all, not as absent.
	_, c = bindOn(t, `{"genreIds":[]}`)
	upd, msg = bindUpdateBody(c)
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if upd.GenreIDs == nil {
		t.Fatal("empty genreIds collapsed into absent")
	}
	if len(*upd.GenreIDs) != 0 {
		t.Errorf("genreIds = %v, want empty set", *upd.GenreIDs)
	}

	// A real set passes through.
	_, c = bindOn(t, `{"genreIds":[2,5]}`)
	upd, msg = bindUpdateBody(c)
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if upd.GenreIDs == nil || len(*upd.GenreIDs) != 2 || (*upd.GenreIDs)[0] != 2 {
		t.Errorf("genreIds = %v, want [2 5]", upd.GenreIDs)
	}
}

func TestBindUpdateBodyIgnoresImageURL(t *testing.T) {
	// Posters change only through the upload path on create; a PATCH
	// body naming imageUrl must not reach the store as a column change.
	_, c := bindOn(t, `{"imageUrl":"http://spoof.example/x.png"}`)
	upd, msg := bindUpdateBody(c)
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if *upd != (repository.MovieUpdate{}) {
		t.Errorf("update carries changes from imageUrl body: %+v", upd)
	}
}

func TestBindUpdateBodyValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty title", `{"title":"   "}`},
		{"title too long", `{"title":"` + strings.Repeat("a", 201) + `"}`},
		{"classification above range", `{"classification":19}`},
		{"classification below range", `{"classification":-1}`},
		{"rating above range", `{"rating":101}`},
		{"negative duration", `{"duration":-5}`},
		{"negative revenue", `{"revenue":-1}`},
		{"revenue with three decimals", `{"revenue":10.123}`},
		{"bad release date", `{"releaseDate":"not-a-date"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, c := bindOn(t, tc.body)
			if _, msg := bindUpdateBody(c); msg == "" {
				t.Errorf("body %s accepted, want validation error", tc.body)
			}
		})
	}
}

func TestParseGenreIDs(t *testing.T) {
	tests := []struct {
		raw     string
		want    []uint64
		wantErr bool
	}{
		{"", nil, false},
		{"[1,2,5]", []uint64{1, 2, 5}, false},
		{"1,2,5", []uint64{1, 2, 5}, false},
		{" 3 , 4 ", []uint64{3, 4}, false},
		{"[]", []uint64{}, false},
		{"a,b", nil, true},
	}
	for _, tc := range tests {
		got, msg := parseGenreIDs(tc.raw)
		if tc.wantErr {
			if msg == "" {
				t.Errorf("parseGenreIDs(%q) accepted, want error", tc.raw)
			}
			continue
		}
		if msg != "" {
			t.Errorf("parseGenreIDs(%q) failed: %s", tc.raw, msg)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("parseGenreIDs(%q) = %v, want %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("parseGenreIDs(%q) = %v, want %v", tc.raw, got, tc.want)
				break
			}
		}
	}
}

func TestCheckMoney(t *testing.T) {
	tests := []struct {
		v  float64
		ok bool
	}{
		{0, true},
		{150000000, true},
		{99.99, true},
		{10.5, true},
		{-0.01, false},
		{3.999, false},
	}
	for _, tc := range tests {
		msg := checkMoney(tc.v, "revenue")
		if tc.ok && msg != "" {
			t.Errorf("checkMoney(%v) = %q, want ok", tc.v, msg)
		}
		if !tc.ok && msg == "" {
			t.Errorf("checkMoney(%v) accepted, want error", tc.v)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2020-01-01"); err != nil {
		t.Errorf("plain date rejected: %v", err)
	}
	if _, err := parseDate("2020-01-01T10:30:00Z"); err != nil {
		t.Errorf("RFC 3339 rejected: %v", err)
	}
	if _, err := parseDate("01/02/2020"); err == nil {
		t.Error("slash date accepted")
	}
}
