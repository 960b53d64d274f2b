package models

import (
	"math"
	"time"
)

type Film struct {
	ID          string    `json:"id"`
	Name        string    `json:"filmname"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	CreatedAt   time.Time `json:"created_at"`
}

// GradeStats is the raw aggregate of review grades for one film.
type GradeStats struct {
	Sum   int64
	Count int64
}

// Mean is the unrounded arithmetic mean, 0 when there are no grades.
func (s GradeStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// FilmView is the read-time projection of a film with its genres and average rating.
type FilmView struct {
	ID            string   `json:"id"`
	Name          string   `json:"filmname"`
	Description   string   `json:"description"`
	Year          int      `json:"year"`
	Genres        []string `json:"genres"`
	AverageRating float64  `json:"average_rating"`
}

func NewFilmView(f Film, genres []string, stats GradeStats) FilmView {
	if genres == nil {
		genres = []string{}
	}
	return FilmView{
		ID:            f.ID,
		Name:          f.Name,
		Description:   f.Description,
		Year:          f.Year,
		Genres:        genres,
		AverageRating: RoundRating(stats.Mean()),
	}
}

// RoundRating rounds to two decimal places for display.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

type FilmSearch struct {
	Name  string
	Genre string
	Year  int
}
