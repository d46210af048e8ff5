package model

import "time"

// Movie represents a catalog entry owned by a single user.  It maps to a
// row in the `movies` table plus the genre names resolved through the
// `movie_genres` join table.  Revenue and budget are stored as
// DECIMAL(15,2) columns and carried as float64 on this side.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owner of the record; never changes after creation.
//  Title          – required, at most 200 characters.
//  Description    – optional synopsis (nullable column).
//  ReleaseDate    – theatrical release date.
//  ImageURL       – URL of the uploaded poster.
//  Classification – age classification, 0–18.
//  Rating         – quality rating, 0–100.
//  TrailerURL     – optional trailer link (nullable column).
//  Duration       – duration in minutes, never negative.
//  Revenue        – box office revenue, never negative.
//  Budget         – production budget, never negative.
//  Language       – optional original language (nullable column).
//  Genres         – associated genre names, resolved on read.
type Movie struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"userId"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	ReleaseDate    time.Time `json:"releaseDate"`
	ImageURL       string    `json:"imageUrl"`
	Classification int       `json:"classification"`
	Rating         int       `json:"rating"`
	TrailerURL     *string   `json:"trailerUrl"`
	Duration       int       `json:"duration"`
	Revenue        float64   `json:"revenue"`
	Budget         float64   `json:"budget"`
	Language       *string   `json:"language"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Genres         []string  `json:"genres"`
}

// Genre is a global lookup tag shared by every user.  Rows are pre-seeded
// at startup and movies reference them by id through `movie_genres`.
type Genre struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
