package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response คำตอบหนึ่งข้อของผู้ตอบหนึ่งคน; unique on (surveyId, questionId, userId)
type Response struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID   primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	QuestionID primitive.ObjectID `bson:"questionId" json:"questionId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Answer     string             `bson:"answer" json:"answer"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RespondentStatus is the respondent-side completion stage for one (user, survey).
type RespondentStatus string

const (
	StatusNew        RespondentStatus = "new"
	StatusInProgress RespondentStatus = "in_progress"
	StatusCompleted  RespondentStatus = "completed"
)

// SurveyUserStatus สถานะการทำแบบสอบถามของผู้ใช้แต่ละคน
type SurveyUserStatus struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	SurveyID  primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	Status    RespondentStatus   `bson:"status" json:"status"`
	Answers   map[string]string  `bson:"answers,omitempty" json:"answers,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AnswerInput is one answer in /response/respond. Answer may be a string, a number or
// an array of strings (checkbox); it is normalized to a string before storage.
type AnswerInput struct {
	QuestionID string      `json:"questionId" validate:"required"`
	Answer     interface{} `json:"answer"`
}

// RespondRequest body ของ /response/respond
type RespondRequest struct {
	SurveyID string        `json:"surveyId" validate:"required"`
	Answers  []AnswerInput `json:"answers" validate:"dive"`
}

// RecordAnswerRequest body ของ PUT /response/status/:surveyId
type RecordAnswerRequest struct {
	QuestionID string      `json:"questionId" validate:"required"`
	Answer     interface{} `json:"answer"`
}

// StatusEntry is the wire shape of one survey in the caller's status map.
type StatusEntry struct {
	Status  RespondentStatus  `json:"status"`
	Answers map[string]string `json:"answers,omitempty"`
}

// Respondent is the public part of a user attached to submitted answers.
type Respondent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmittedAnswer is one stored answer echoed back after a submit.
type SubmittedAnswer struct {
	QuestionID string       `json:"questionId"`
	Question   string       `json:"question"`
	Type       QuestionType `json:"type"`
	Answer     string       `json:"answer"`
}

// SubmissionResult is the body returned by /response/respond.
type SubmissionResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Respondent Respondent        `json:"respondent"`
	Answers    []SubmittedAnswer `json:"answers"`
}

// VisibleSurvey is a published survey overlaid with the caller's status.
type VisibleSurvey struct {
	Survey
	UserStatus RespondentStatus  `json:"userStatus"`
	Answers    map[string]string `json:"answers,omitempty"`
}
