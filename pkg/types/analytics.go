package types

import "math"

type Analytics struct {
	UserID        int64    `json:"user_id" db:"user_id"`
	AssignmentID  int64    `json:"assignment_id" db:"assignment_id"`
	AverageRating *float64 `json:"average_rating" db:"average_rating"`
}

type RankedAverage struct {
	UserID        int64   `json:"user_id" db:"user_id"`
	FirstName     string  `json:"first_name" db:"first_name"`
	LastName      string  `json:"last_name" db:"last_name"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
}

type CompletionRow struct {
	UserID           int64  `json:"user_id" db:"user_id"`
	FirstName        string `json:"first_name" db:"first_name"`
	LastName         string `json:"last_name" db:"last_name"`
	CompletedReviews int64  `json:"completed_reviews" db:"completed_reviews"`
	TotalReviews     int64  `json:"total_reviews" db:"total_reviews"`
}

type CompletionPage struct {
	TotalResults int64           `json:"total_results"`
	Results      []CompletionRow `json:"results"`
}

// RoundAverage mirrors ROUND(AVG(rating)::numeric, 2).
func RoundAverage(sum, count int64) *float64 {
	if count == 0 {
		return nil
	}
	v := math.Round(float64(sum)/float64(count)*100) / 100
	return &v
}
