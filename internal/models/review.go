package models

import "time"

const (
	MinGrade = 1
	MaxGrade = 10
)

type Review struct {
	ID        string    `json:"id"`
	Text      string    `json:"reviewtext"`
	Grade     int       `json:"tengrade"`
	Recommend bool      `json:"binarygrade"`
	FilmID    string    `json:"film_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewInput is what a caller supplies when writing a review.
type ReviewInput struct {
	Text      string
	Grade     int
	Recommend bool
}

// Normalized returns the input with its grade clamped into [MinGrade, MaxGrade].
func (in ReviewInput) Normalized() ReviewInput {
	in.Grade = ClampGrade(in.Grade)
	return in
}

func ClampGrade(g int) int {
	if g < MinGrade {
		return MinGrade
	}
	if g > MaxGrade {
		return MaxGrade
	}
	return g
}

// ReviewView is the composite returned by every review operation.
type ReviewView struct {
	ID        string   `json:"id"`
	Text      string   `json:"reviewtext"`
	Grade     int      `json:"tengrade"`
	Recommend bool     `json:"binarygrade"`
	Film      FilmView `json:"film"`
	User      UserView `json:"user"`
}

func NewReviewView(r Review, film FilmView, user UserView) ReviewView {
	return ReviewView{
		ID:        r.ID,
		Text:      r.Text,
		Grade:     r.Grade,
		Recommend: r.Recommend,
		Film:      film,
		User:      user,
	}
}
