package qrcode

import (
	"bytes"
	"testing"

	"Backend-SurveyHub/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyQRCode(t *testing.T) {
	suite := test.NewTestSuiteResult("QR Code Tests")
	defer suite.PrintSummary(t)

	suite.Run(t, "LinkTrimsTrailingSlash", func(t *testing.T) {
		assert.Equal(t, "https://surveys.example.com/surveys/abc", SurveyLink("https://surveys.example.com/", "abc"))
	})

	suite.Run(t, "EncodesPNG", func(t *testing.T) {
		png, err := SurveyPNG("https://surveys.example.com", "abc", 0)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	})
}
