package feed

import (
	"errors"

	"syntax_feed_backend/internal/model"
)

var (
	ErrNoSelection   = errors.New("no option selected")
	ErrInvalidOption = errors.New("option out of range")
)

// GradeQuiz reports whether selected is the quiz's correct option.
func GradeQuiz(q model.Quiz, selected *int) (bool, error) {
	if selected == nil {
		return false, ErrNoSelection
	}
	if *selected < 0 || *selected >= len(q.Options) {
		return false, ErrInvalidOption
	}
	return *selected == q.CorrectAnswer, nil
}

// QuizResult is the outcome of answering or skipping the quiz at Position.
type QuizResult struct {
	Position      int    `json:"position"`
	QuizID        string `json:"quizId"`
	Selected      *int   `json:"selected,omitempty"`
	Correct       bool   `json:"correct"`
	Skipped       bool   `json:"skipped"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}
