package models

// AnswerOutcome is one distinct answer to a question with its share of the survey total.
type AnswerOutcome struct {
	Answer     string  `json:"answer"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionOutcome is the distribution of answers for one question.
type QuestionOutcome struct {
	QuestionID     string          `json:"questionId"`
	Text           string          `json:"text"`
	Type           QuestionType    `json:"type"`
	Options        []string        `json:"options"`
	TotalResponses int             `json:"totalResponses"`
	Outcomes       []AnswerOutcome `json:"outcomes"`
	AverageRating  *float64        `json:"averageRating,omitempty"`
}

// SurveySummary is the survey header of an outcome report.
type SurveySummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   Respondent `json:"createdBy"`
}

// SurveyOutcomes body ของ /admin/get-survey-outcomes/:surveyId
type SurveyOutcomes struct {
	Success              bool              `json:"success"`
	Survey               SurveySummary     `json:"survey"`
	TotalSurveyResponses int               `json:"totalSurveyResponses"`
	AverageRating        *float64          `json:"averageRating"`
	Questions            []QuestionOutcome `json:"questions"`
}
