package email

import (
	"bytes"
	"html/template"
)

type NewSurveyEmailData struct {
	SurveyTitle string
	CreatedBy   string
	Questions   int
	SurveyLink  string
}

type ResetCodeEmailData struct {
	Name    string
	Code    string
	Minutes int
}

var newSurveyTmpl = template.Must(template.New("new-survey").Parse(`<html><body>
<h2>มีแบบสอบถามใหม่: {{.SurveyTitle}}</h2>
<p>Created by <b>{{.CreatedBy}}</b> with {{.Questions}} question(s).</p>
{{if .SurveyLink}}<p><a href="{{.SurveyLink}}">Open survey</a></p>{{end}}
</body></html>`))

var resetCodeTmpl = template.Must(template.New("reset-code").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>Your password reset code is <b style="font-size:20px">{{.Code}}</b>.</p>
<p>The code expires in {{.Minutes}} minutes. If you did not ask for it you can ignore this email.</p>
</body></html>`))

func RenderNewSurveyHTML(data NewSurveyEmailData) (string, error) {
	var buf bytes.Buffer
	if err := newSurveyTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderResetCodeHTML(data ResetCodeEmailData) (string, error) {
	var buf bytes.Buffer
	if err := resetCodeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
