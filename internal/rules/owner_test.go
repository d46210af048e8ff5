package rules

import (
	"errors"
	"testing"

	"moviecatalog/internal/model"
	"moviecatalog/internal/repository"
)

func TestEnsureOwner(t *testing.T) {
	movie := &model.Movie{ID: 1, UserID: 7}

	tests := []struct {
		name    string
		movie   *model.Movie
		userID  uint64
		wantErr error
	}{
		{"owner passes", movie, 7, nil},
		{"missing movie is not found", nil, 7, repository.ErrMovieNotFound},
		{"foreign movie is forbidden, not hidden", movie, 8, repository.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := EnsureOwner(tc.movie, tc.userID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("EnsureOwner() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
