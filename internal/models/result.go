package models

import "time"

// QuizResult is the outcome of one completed session. Produced exactly once
// per session and never mutated afterwards.
type QuizResult struct {
	CorrectCount   int    `bson:"correct_answers" json:"correct_answers"`
	TotalCount     int    `bson:"total_questions" json:"total_questions"`
	ScorePercent   int    `bson:"score" json:"score"`
	ElapsedSeconds int    `bson:"time_taken" json:"time_taken"`
	Category       string `bson:"category" json:"category"`
	Difficulty     string `bson:"difficulty" json:"difficulty"`
}

// ResultRecord is the persisted form of a QuizResult, keyed by the user who
// played it. Field names follow the quizResults collection layout.
type ResultRecord struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	UserName   string    `bson:"user_name" json:"user_name"`
	QuizResult `bson:",inline"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// ReviewItem pairs a question with the answer the user gave, for the
// post-submission answer review view.
type ReviewItem struct {
	Index         int    `json:"index"`
	Prompt        string `json:"prompt"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Answered      bool   `json:"answered"`
	Correct       bool   `json:"correct"`
}
