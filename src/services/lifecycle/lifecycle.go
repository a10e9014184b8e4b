// Package lifecycle tracks, per respondent and survey, which questions have been
// answered and whether the survey may be submitted.
//
// States are new, in_progress and completed. The first recorded answer moves a
// survey to in_progress, a valid submit moves it to completed, and completed has no
// outgoing edge. Answers are never removed.
package lifecycle

import (
	"fmt"

	"Backend-SurveyHub/src/models"
)

// ValidationError is returned when a submit is attempted with required answers missing.
type ValidationError struct {
	Message string
	Missing []string // question ids, in question order
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrRequiredAnswers is the message shown to respondents.
const ErrRequiredAnswers = "answer all required questions"

// Transition reports whether moving from one respondent status to another is a
// modeled edge.
func Transition(from, to models.RespondentStatus) bool {
	switch from {
	case models.StatusNew:
		return to == models.StatusInProgress || to == models.StatusCompleted
	case models.StatusInProgress:
		return to == models.StatusInProgress || to == models.StatusCompleted
	}
	return false
}

// RecordAnswer merges one answer into st and marks it in progress unless already
// completed. The value is stored as-is; its type is not checked against the question.
func RecordAnswer(st *models.SurveyUserStatus, questionID, value string) {
	if st.Answers == nil {
		st.Answers = make(map[string]string)
	}
	st.Answers[questionID] = value
	if st.Status != models.StatusCompleted {
		st.Status = models.StatusInProgress
	}
}

// CanSubmit returns true iff every required question has a non-empty answer.
// Only the empty string counts as unanswered; "0" is an answer.
func CanSubmit(questions []models.Question, answers map[string]string) bool {
	return len(MissingRequired(questions, answers)) == 0
}

// MissingRequired lists the ids of required questions without an answer.
func MissingRequired(questions []models.Question, answers map[string]string) []string {
	var missing []string
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if answers[q.ID.Hex()] == "" {
			missing = append(missing, q.ID.Hex())
		}
	}
	return missing
}

// AnsweredQuestions returns the questions that get a stored Response on submit:
// every question, required or optional, with a non-empty answer.
func AnsweredQuestions(questions []models.Question, answers map[string]string) []models.Question {
	out := make([]models.Question, 0, len(answers))
	for _, q := range questions {
		if answers[q.ID.Hex()] != "" {
			out = append(out, q)
		}
	}
	return out
}

// Submit finalizes st with answers. It fails with a *ValidationError when a
// required question is unanswered and leaves st untouched in that case.
func Submit(st *models.SurveyUserStatus, questions []models.Question, answers map[string]string) error {
	if missing := MissingRequired(questions, answers); len(missing) > 0 {
		return &ValidationError{Message: ErrRequiredAnswers, Missing: missing}
	}

	from := st.Status
	if from == "" {
		from = models.StatusNew
	}
	// resubmits after completion are upserts at the data layer; the status stays put
	if from != models.StatusCompleted && !Transition(from, models.StatusCompleted) {
		return fmt.Errorf("cannot submit from status %q", from)
	}

	// answers recorded earlier but left out of the batch stay
	if st.Answers == nil {
		st.Answers = make(map[string]string, len(answers))
	}
	for k, v := range answers {
		st.Answers[k] = v
	}
	st.Status = models.StatusCompleted
	return nil
}
