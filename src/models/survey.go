package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType ชนิดของคำถาม
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionRating         QuestionType = "rating"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionCheckbox, QuestionRating:
		return true
	}
	return false
}

// NeedsOptions reports whether questions of this type must carry options.
func (t QuestionType) NeedsOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox
}

// SurveyStatus is the author-side stage of a survey.
type SurveyStatus string

const (
	SurveyDraft     SurveyStatus = "draft"
	SurveyPreview   SurveyStatus = "preview"
	SurveyPublished SurveyStatus = "published"
)

// --- Survey ---
type Survey struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Status      SurveyStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// questions เก็บแยก collection แต่ส่งกลับพร้อม survey
	Questions []Question `bson:"-" json:"questions"`
}

// --- Question ---
type Question struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	Type     QuestionType       `bson:"type" json:"type"`
	Text     string             `bson:"text" json:"text"`
	Options  []string           `bson:"options,omitempty" json:"options"`
	Required bool               `bson:"required" json:"required"`
	Order    int                `bson:"order" json:"order"`
}

// QuestionInput is one question in a create/update body. ID is set only on update.
type QuestionInput struct {
	ID       string       `json:"id,omitempty"`
	Type     QuestionType `json:"type" validate:"required"`
	Text     string       `json:"text" validate:"required"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// CreateSurveyRequest body ของ /admin/create-survey
type CreateSurveyRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}

// UpdateSurveyRequest body ของ /admin/update-survey/:id; empty fields are left unchanged.
type UpdateSurveyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}
