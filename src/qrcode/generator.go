package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize ขนาดภาพ QR (พิกเซล) เมื่อไม่ได้ระบุ
const DefaultSize = 256

// SurveyLink is the respondent-facing URL of a survey.
func SurveyLink(baseURL, surveyID string) string {
	return fmt.Sprintf("%s/surveys/%s", strings.TrimRight(baseURL, "/"), surveyID)
}

// SurveyPNG สร้าง QR Code ของลิงก์แบบสอบถามเป็นไฟล์ PNG ในหน่วยความจำ
func SurveyPNG(baseURL, surveyID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(SurveyLink(baseURL, surveyID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for survey %s: %w", surveyID, err)
	}
	return png, nil
}
