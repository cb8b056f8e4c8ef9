package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cerebrum-service/internal/models"
)

// MaxQuestions is the largest amount the provider serves per request.
const MaxQuestions = 50

// Client fetches multiple-choice questions from the Open Trivia DB API.
// Fetch failures are absorbed: callers always receive a well-formed,
// non-empty question list.
type Client struct {
	BaseURL  string
	CountURL string
	HTTP     *http.Client
}

func NewClient(baseURL, countURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:  baseURL,
		CountURL: countURL,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

// FetchQuestions requests count questions for the given category and
// difficulty. On any transport error, non-2xx status, or non-zero provider
// response code it falls back to locally generated placeholder questions,
// so the error is never propagated.
func (c *Client) FetchQuestions(ctx context.Context, categoryID int, difficulty string, count int) []models.Question {
	if count < 1 {
		count = 1
	}
	if count > MaxQuestions {
		count = MaxQuestions
	}

	questions, err := c.fetch(ctx, categoryID, difficulty, count)
	if err != nil {
		log.Printf("Error fetching questions, using fallback: %v", err)
		return FallbackQuestions(CategoryByID(categoryID).Name, difficulty, count)
	}
	return questions
}

func (c *Client) fetch(ctx context.Context, categoryID int, difficulty string, count int) ([]models.Question, error) {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(count))
	q.Set("category", strconv.Itoa(categoryID))
	q.Set("difficulty", difficulty)
	q.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed: %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ResponseCode != 0 {
		return nil, fmt.Errorf("API error: response code %d", body.ResponseCode)
	}
	if len(body.Results) == 0 {
		return nil, fmt.Errorf("API returned no questions")
	}

	questions := make([]models.Question, 0, len(body.Results))
	for _, r := range body.Results {
		questions = append(questions, models.Question{
			Prompt:           html.UnescapeString(r.Question),
			CorrectAnswer:    html.UnescapeString(r.CorrectAnswer),
			IncorrectAnswers: unescapeAll(r.IncorrectAnswers),
			Category:         html.UnescapeString(r.Category),
			Difficulty:       r.Difficulty,
		})
	}
	return questions, nil
}

type countResponse struct {
	CategoryQuestionCount struct {
		Total int `json:"total_question_count"`
	} `json:"category_question_count"`
}

// CategoryCount returns the provider's total question count for a category.
// Failures return a conservative default instead of an error.
func (c *Client) CategoryCount(ctx context.Context, categoryID int) int {
	const defaultCount = 100

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.CountURL+"?category="+strconv.Itoa(categoryID), nil)
	if err != nil {
		return defaultCount
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("Error fetching category count: %v", err)
		return defaultCount
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return defaultCount
	}

	var body countResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return defaultCount
	}
	if body.CategoryQuestionCount.Total <= 0 {
		return defaultCount
	}
	return body.CategoryQuestionCount.Total
}

// ShuffleOptions returns all four answers of a question in random display
// order (Fisher-Yates).
func ShuffleOptions(q models.Question) []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.IncorrectAnswers...)
	options = append(options, q.CorrectAnswer)
	for i := len(options) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}

func unescapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = html.UnescapeString(s)
	}
	return out
}
