package outcomes

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"Backend-SurveyHub/src/models"
)

// NoAnswer is the bucket for responses stored with an empty answer.
const NoAnswer = "no answer"

var leadingDigit = regexp.MustCompile(`\d`)

// Result is the survey-independent part of an outcome report.
type Result struct {
	TotalSurveyResponses int
	AverageRating        *float64
	Questions            []models.QuestionOutcome
}

// Aggregate groups the responses of each question by lower-cased answer. Percentages
// are taken against the number of responses across the whole survey, so a question's
// rows only sum to 100 when it is the only answered question.
func Aggregate(questions []models.Question, responses []models.Response) Result {
	byQuestion := make(map[string][]models.Response, len(questions))
	for _, q := range questions {
		byQuestion[q.ID.Hex()] = nil
	}

	total := 0
	for _, r := range responses {
		key := r.QuestionID.Hex()
		if _, ok := byQuestion[key]; !ok {
			continue
		}
		byQuestion[key] = append(byQuestion[key], r)
		total++
	}

	res := Result{
		TotalSurveyResponses: total,
		Questions:            make([]models.QuestionOutcome, 0, len(questions)),
	}

	var ratings []models.Response
	for _, q := range questions {
		rs := byQuestion[q.ID.Hex()]

		out := models.QuestionOutcome{
			QuestionID:     q.ID.Hex(),
			Text:           q.Text,
			Type:           q.Type,
			Options:        q.Options,
			TotalResponses: len(rs),
			Outcomes:       distribution(rs, total),
		}
		if out.Options == nil {
			out.Options = []string{}
		}
		if q.Type == models.QuestionRating {
			out.AverageRating = AverageRating(rs)
			ratings = append(ratings, rs...)
		}
		res.Questions = append(res.Questions, out)
	}

	res.AverageRating = AverageRating(ratings)
	return res
}

func distribution(rs []models.Response, total int) []models.AnswerOutcome {
	out := []models.AnswerOutcome{}
	index := map[string]int{}
	for _, r := range rs {
		key := strings.ToLower(r.Answer)
		if key == "" {
			key = NoAnswer
		}
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, models.AnswerOutcome{Answer: key, Count: 1})
	}

	for i := range out {
		out[i].Percentage = round(float64(out[i].Count)/float64(total)*100, 2)
	}
	return out
}

// AverageRating averages the first digit found in each answer, ignoring answers
// without a digit and zero ratings. Nil when nothing is left to average.
func AverageRating(responses []models.Response) *float64 {
	sum, n := 0, 0
	for _, r := range responses {
		d := leadingDigit.FindString(r.Answer)
		if d == "" {
			continue
		}
		v, _ := strconv.Atoi(d)
		if v == 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := round(float64(sum)/float64(n), 1)
	return &avg
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// WriteCSV writes one row per (question, answer) with its count and percentage.
func WriteCSV(w io.Writer, o *models.SurveyOutcomes) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"questionId", "question", "type", "answer", "count", "percentage"}); err != nil {
		return err
	}

	for _, q := range o.Questions {
		if len(q.Outcomes) == 0 {
			if err := cw.Write([]string{q.QuestionID, q.Text, string(q.Type), "", "0", "0.00"}); err != nil {
				return err
			}
			continue
		}
		for _, a := range q.Outcomes {
			row := []string{
				q.QuestionID,
				q.Text,
				string(q.Type),
				a.Answer,
				strconv.Itoa(a.Count),
				fmt.Sprintf("%.2f", a.Percentage),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
