package trivia

import (
	"fmt"

	"cerebrum-service/internal/models"
)

// fallbackBank is the number of placeholder questions available when the
// provider is unreachable.
const fallbackBank = 4

// FallbackQuestions synthesizes placeholder questions labeled with the
// requested category and difficulty. The result has length
// min(count, fallbackBank) and every question carries exactly one correct
// and three incorrect answers, so a quiz can always start offline.
func FallbackQuestions(categoryName, difficulty string, count int) []models.Question {
	if count > fallbackBank {
		count = fallbackBank
	}
	if count < 1 {
		count = 1
	}

	questions := make([]models.Question, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, models.Question{
			Prompt:        fmt.Sprintf("Sample question %d about %s", i, categoryName),
			CorrectAnswer: fmt.Sprintf("Correct Answer %d", i),
			IncorrectAnswers: []string{
				"Wrong Answer 1",
				"Wrong Answer 2",
				"Wrong Answer 3",
			},
			Category:   categoryName,
			Difficulty: difficulty,
		})
	}
	return questions
}
