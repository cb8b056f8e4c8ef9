package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(base, count string) *Client {
	return NewClient(base, count, 2*time.Second)
}

func TestFetchQuestionsDecodesEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("amount"); got != "2" {
			t.Errorf("Expected amount=2, got %q", got)
		}
		if got := r.URL.Query().Get("type"); got != "multiple" {
			t.Errorf("Expected type=multiple, got %q", got)
		}
		w.Write([]byte(`{
			"response_code": 0,
			"results": [
				{
					"category": "Science &amp; Nature",
					"type": "multiple",
					"difficulty": "medium",
					"question": "What&#039;s the chemical symbol for gold?",
					"correct_answer": "Au",
					"incorrect_answers": ["Ag", "Fe", "&quot;Go&quot;"]
				},
				{
					"category": "Science &amp; Nature",
					"type": "multiple",
					"difficulty": "medium",
					"question": "Second question",
					"correct_answer": "Yes",
					"incorrect_answers": ["No", "Maybe", "Never"]
				}
			]
		}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL)
	questions := c.FetchQuestions(context.Background(), 17, "medium", 2)

	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	if questions[0].Prompt != "What's the chemical symbol for gold?" {
		t.Errorf("Expected decoded prompt, got %q", questions[0].Prompt)
	}
	if questions[0].Category != "Science & Nature" {
		t.Errorf("Expected decoded category, got %q", questions[0].Category)
	}
	if questions[0].IncorrectAnswers[2] != `"Go"` {
		t.Errorf("Expected decoded incorrect answer, got %q", questions[0].IncorrectAnswers[2])
	}
	if questions[0].CorrectAnswer != "Au" {
		t.Errorf("Unexpected correct answer %q", questions[0].CorrectAnswer)
	}
}

func TestFetchQuestionsFallsBackOnProviderError(t *testing.T) {
	// response_code 1 means the provider has too few questions for the request.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code": 1, "results": []}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL)
	questions := c.FetchQuestions(context.Background(), 9, "hard", 10)

	if len(questions) == 0 {
		t.Fatal("Expected fallback questions, got none")
	}
	if questions[0].Category != "General Knowledge" {
		t.Errorf("Expected fallback to carry the category name, got %q", questions[0].Category)
	}
}

func TestFetchQuestionsFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL)
	questions := c.FetchQuestions(context.Background(), 9, "easy", 5)
	if len(questions) == 0 {
		t.Fatal("Expected fallback questions on 500, got none")
	}
}

func TestFetchQuestionsFallsBackOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := newTestClient(server.URL, server.URL)
	questions := c.FetchQuestions(context.Background(), 9, "medium", 10)
	if len(questions) == 0 {
		t.Fatal("Expected fallback questions when the provider is unreachable")
	}
	for _, q := range questions {
		if q.CorrectAnswer == "" || len(q.IncorrectAnswers) != 3 {
			t.Errorf("Malformed fallback question %+v", q)
		}
	}
}

func TestFetchQuestionsClampsCount(t *testing.T) {
	var gotAmount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAmount = r.URL.Query().Get("amount")
		w.Write([]byte(`{"response_code": 0, "results": [
			{"category": "General Knowledge", "type": "multiple", "difficulty": "easy",
			 "question": "Q", "correct_answer": "A", "incorrect_answers": ["B", "C", "D"]}
		]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL)
	c.FetchQuestions(context.Background(), 9, "easy", 500)
	if gotAmount != "50" {
		t.Errorf("Expected amount clamped to 50, got %q", gotAmount)
	}

	c.FetchQuestions(context.Background(), 9, "easy", 0)
	if gotAmount != "1" {
		t.Errorf("Expected amount raised to 1, got %q", gotAmount)
	}
}

func TestFallbackQuestions(t *testing.T) {
	questions := FallbackQuestions("Sports", "hard", 10)
	if len(questions) != 4 {
		t.Fatalf("Expected the fallback bank of 4, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Category != "Sports" || q.Difficulty != "hard" {
			t.Errorf("Question %d carries wrong labels: %+v", i, q)
		}
		if q.CorrectAnswer == "" || len(q.IncorrectAnswers) != 3 {
			t.Errorf("Question %d is not a 4-option question: %+v", i, q)
		}
	}

	if got := FallbackQuestions("Sports", "easy", 2); len(got) != 2 {
		t.Errorf("Expected 2 fallback questions, got %d", len(got))
	}
}

func TestCategoryCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "18" {
			t.Errorf("Expected category=18, got %q", got)
		}
		w.Write([]byte(`{"category_id": 18, "category_question_count": {"total_question_count": 325}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL)
	if count := c.CategoryCount(context.Background(), 18); count != 325 {
		t.Errorf("Expected count 325, got %d", count)
	}
}

func TestCategoryCountDefaultsOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(server.URL, server.URL)
	if count := c.CategoryCount(context.Background(), 18); count != 100 {
		t.Errorf("Expected default count 100, got %d", count)
	}
}

func TestShuffleOptionsKeepsAllAnswers(t *testing.T) {
	q := FallbackQuestions("General Knowledge", "medium", 1)[0]
	options := ShuffleOptions(q)
	if len(options) != 4 {
		t.Fatalf("Expected 4 options, got %d", len(options))
	}

	seen := make(map[string]bool)
	for _, o := range options {
		seen[o] = true
	}
	if !seen[q.CorrectAnswer] {
		t.Error("Correct answer missing from options")
	}
	for _, w := range q.IncorrectAnswers {
		if !seen[w] {
			t.Errorf("Incorrect answer %q missing from options", w)
		}
	}
}

func TestCategoryByID(t *testing.T) {
	if got := CategoryByID(18); got.Name != "Computers" {
		t.Errorf("Unexpected category for id 18: %+v", got)
	}
	if got := CategoryByID(999); got.Name != "General Knowledge" {
		t.Errorf("Expected unknown id to fall back to General Knowledge, got %+v", got)
	}
}
