package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/repository"
	"moviecatalog/internal/service"
	"moviecatalog/internal/storage"
)

// MovieHandler exposes the movie lifecycle over HTTP. All routes run
// behind the JWT middleware; the authenticated user id scopes every
// operation.
type MovieHandler struct {
	Movies *service.MovieService
}

func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

const dateLayout = "2006-01-02"

// Create handles POST /v1/movies. The body is multipart form data:
// metadata fields plus the poster under "file".
func (h *MovieHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	data, verr := bindCreateForm(c)
	if verr != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr})
	}

	poster, err := readPoster(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read uploaded file"})
	}

	movie, err := h.Movies.Create(c.Request().Context(), uid, *data, poster)
	if err != nil {
		return writeMovieError(c, err)
	}
	return c.JSON(http.StatusCreated, movie)
}

// List handles GET /v1/movies with optional filters and pagination.
func (h *MovieHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	q, verr := bindListQuery(c)
	if verr != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr})
	}

	page, err := h.Movies.FindAll(c.Request().Context(), uid, *q,
		c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return writeMovieError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetOne handles GET /v1/movies/:id.
func (h *MovieHandler) GetOne(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	movie, err := h.Movies.FindOne(c.Request().Context(), id, uid)
	if err != nil {
		return writeMovieError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// Update handles PATCH /v1/movies/:id. Only supplied fields change;
// "genreIds": [] clears all genre associations while an absent genreIds
// leaves them untouched.
func (h *MovieHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	upd, verr := bindUpdateBody(c)
	if verr != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr})
	}

	movie, err := h.Movies.Update(c.Request().Context(), id, uid, *upd)
	if err != nil {
		return writeMovieError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /v1/movies/:id and answers 204 on success.
func (h *MovieHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Movies.Remove(c.Request().Context(), id, uid); err != nil {
		return writeMovieError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// writeMovieError maps the closed set of catalog error kinds to status
// codes in one place. Nothing downgrades Forbidden to NotFound or vice
// versa.
func writeMovieError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have access to this movie"})
	case errors.Is(err, repository.ErrGenreMissing):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "genre does not exist"})
	case errors.Is(err, service.ErrPosterRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "poster image is required"})
	case errors.Is(err, storage.ErrNotImage):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image uploads are allowed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// ----- form/body binding -----

// bindCreateForm reads the multipart metadata fields into MovieData.
// Returns a non-empty message on validation failure.
func bindCreateForm(c echo.Context) (*repository.MovieData, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return nil, "title is required"
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, "title must be at most 200 characters"
	}

	releaseRaw := strings.TrimSpace(c.FormValue("releaseDate"))
	if releaseRaw == "" {
		return nil, "releaseDate is required"
	}
	release, err := parseDate(releaseRaw)
	if err != nil {
		return nil, "releaseDate must be a valid date"
	}

	data := repository.MovieData{
		Title:       title,
		ReleaseDate: release,
		ImageURL:    strings.TrimSpace(c.FormValue("imageUrl")), // replaced by the upload result
	}
	if v := c.FormValue("description"); v != "" {
		data.Description = &v
	}
	if v := c.FormValue("trailerUrl"); v != "" {
		data.TrailerURL = &v
	}
	if v := c.FormValue("language"); v != "" {
		data.Language = &v
	}

	if n, msg := formIntIn(c, "classification", 0, 18); msg != "" {
		return nil, msg
	} else if n != nil {
		data.Classification = *n
	}
	if n, msg := formIntIn(c, "rating", 0, 100); msg != "" {
		return nil, msg
	} else if n != nil {
		data.Rating = *n
	}
	if n, msg := formIntIn(c, "duration", 0, math.MaxInt32); msg != "" {
		return nil, msg
	} else if n != nil {
		data.Duration = *n
	}
	if f, msg := formMoney(c, "revenue"); msg != "" {
		return nil, msg
	} else if f != nil {
		data.Revenue = *f
	}
	if f, msg := formMoney(c, "budget"); msg != "" {
		return nil, msg
	} else if f != nil {
		data.Budget = *f
	}

	ids, msg := parseGenreIDs(c.FormValue("genreIds"))
	if msg != "" {
		return nil, msg
	}
	data.GenreIDs = ids
	return &data, ""
}

// bindListQuery parses the optional filter params. Malformed numeric or
// date filters fail with 400 rather than silently matching nothing;
// absent ones contribute no constraint at all.
func bindListQuery(c echo.Context) (*repository.MovieQuery, string) {
	q := repository.MovieQuery{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
	}

	assignInt := func(name string, dst **int) string {
		raw := c.QueryParam(name)
		if raw == "" {
			return ""
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return name + " must be an integer"
		}
		*dst = &n
		return ""
	}
	if msg := assignInt("minDuration", &q.MinDuration); msg != "" {
		return nil, msg
	}
	if msg := assignInt("maxDuration", &q.MaxDuration); msg != "" {
		return nil, msg
	}
	if msg := assignInt("maxClassification", &q.MaxClassification); msg != "" {
		return nil, msg
	}

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, "startDate must be a valid date"
		}
		q.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, "endDate must be a valid date"
		}
		q.EndDate = &t
	}
	return &q, ""
}

// updateBody mirrors MovieUpdate with JSON tags. Pointer fields
// distinguish "absent" from "present with zero value"; GenreIDs keeps
// the same distinction for the whole association set.
type updateBody struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	ReleaseDate    *string   `json:"releaseDate"`
	Classification *int      `json:"classification"`
	Rating         *int      `json:"rating"`
	TrailerURL     *string   `json:"trailerUrl"`
	Duration       *int      `json:"duration"`
	Revenue        *float64  `json:"revenue"`
	Budget         *float64  `json:"budget"`
	Language       *string   `json:"language"`
	GenreIDs       *[]uint64 `json:"genreIds"`
}

func bindUpdateBody(c echo.Context) (*repository.MovieUpdate, string) {
	var body updateBody
	if err := c.Bind(&body); err != nil {
		return nil, "invalid request body"
	}

	upd := repository.MovieUpdate{
		Description: body.Description,
		TrailerURL:  body.TrailerURL,
		Language:    body.Language,
		GenreIDs:    body.GenreIDs,
	}

	if body.Title != nil {
		t := strings.TrimSpace(*body.Title)
		if t == "" {
			return nil, "title cannot be empty"
		}
		if utf8.RuneCountInString(t) > 200 {
			return nil, "title must be at most 200 characters"
		}
		upd.Title = &t
	}
	if body.ReleaseDate != nil {
		t, err := parseDate(*body.ReleaseDate)
		if err != nil {
			return nil, "releaseDate must be a valid date"
		}
		upd.ReleaseDate = &t
	}
	if body.Classification != nil {
		if *body.Classification < 0 || *body.Classification > 18 {
			return nil, "classification must be between 0 and 18"
		}
		upd.Classification = body.Classification
	}
	if body.Rating != nil {
		if *body.Rating < 0 || *body.Rating > 100 {
			return nil, "rating must be between 0 and 100"
		}
		upd.Rating = body.Rating
	}
	if body.Duration != nil {
		if *body.Duration < 0 {
			return nil, "duration cannot be negative"
		}
		upd.Duration = body.Duration
	}
	if body.Revenue != nil {
		if msg := checkMoney(*body.Revenue, "revenue"); msg != "" {
			return nil, msg
		}
		upd.Revenue = body.Revenue
	}
	if body.Budget != nil {
		if msg := checkMoney(*body.Budget, "budget"); msg != "" {
			return nil, msg
		}
		upd.Budget = body.Budget
	}
	return &upd, ""
}

// readPoster pulls the uploaded file out of the multipart form. A
// missing file yields nil so the service can reject the create before
// touching storage or the database.
func readPoster(c echo.Context) (*storage.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &storage.File{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Bytes:    data,
	}, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// formIntIn parses an optional integer form field with inclusive bounds.
func formIntIn(c echo.Context, name string, min, max int) (*int, string) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return nil, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, name + " must be an integer"
	}
	if n < min || n > max {
		return nil, name + " is out of range"
	}
	return &n, ""
}

// formMoney parses an optional non-negative decimal with at most two
// decimal places.
func formMoney(c echo.Context, name string) (*float64, string) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return nil, ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, name + " must be a number"
	}
	if msg := checkMoney(f, name); msg != "" {
		return nil, msg
	}
	return &f, ""
}

func checkMoney(v float64, name string) string {
	if v < 0 {
		return name + " cannot be negative"
	}
	if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
		return name + " must have at most two decimal places"
	}
	return ""
}

// parseGenreIDs accepts either a JSON array ("[1,2]") or a comma
// separated list ("1,2"), matching what the web client sends in
// multipart forms.
func parseGenreIDs(raw string) ([]uint64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	var ids []uint64
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids, ""
	}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, "genreIds must be a list of integers"
		}
		ids = append(ids, n)
	}
	return ids, ""
}
