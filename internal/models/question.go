package models

// Difficulty levels accepted by the trivia provider.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is one of the known difficulty levels.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

// Question is a single multiple-choice question. Text fields are already
// entity-decoded; a question is immutable once fetched.
type Question struct {
	Prompt           string   `bson:"prompt" json:"prompt"`
	CorrectAnswer    string   `bson:"correct_answer" json:"correct_answer"`
	IncorrectAnswers []string `bson:"incorrect_answers" json:"incorrect_answers"`
	Category         string   `bson:"category" json:"category"`
	Difficulty       string   `bson:"difficulty" json:"difficulty"`
}
