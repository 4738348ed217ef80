package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTpl = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
  <p>Your account is ready. Sign in and start sharing the places you love.</p>
  <p style="color: #888; font-size: 12px;">If you did not sign up, you can ignore this email.</p>
</body>
</html>`))

// RenderWelcome renders the welcome email for a new user.
func RenderWelcome(appName, name string) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = welcomeTpl.Execute(&buf, map[string]string{"AppName": appName, "Name": name}); err != nil {
		return "", "", "", err
	}
	subject = fmt.Sprintf("Welcome to %s", appName)
	text = fmt.Sprintf("Welcome to %s, %s! Your account is ready.", appName, name)
	return subject, text, buf.String(), nil
}
