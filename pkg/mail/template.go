package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

const ConfirmSubject = "Confirm your email"

// Confirmation is everything needed to render and address a confirmation
// email. It is also the job payload of the mail queue.
type Confirmation struct {
	To       string `json:"to"`
	Username string `json:"username"`
	Host     string `json:"host"`
	Token    string `json:"token"`
}

// Link is the confirmation URL. Host is the service base URL ending in "/".
func (c Confirmation) Link() string {
	host := c.Host
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host + "api/auth/confirmed_email/" + c.Token
}

const confirmTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <p>Hello {{ .Username | default "there" | title }},</p>
  <p>Thanks for signing up. Please confirm your email address by following the link below.</p>
  <p><a href="{{ .Link }}">Confirm email</a></p>
  <p style="color: #888;">If you did not create an account you can ignore this message.</p>
  <p style="color: #888;">&copy; {{ now | date "2006" }} {{ .AppName }}</p>
</body>
</html>`

var confirmTmpl = template.Must(template.New("confirm").Funcs(sprig.FuncMap()).Parse(confirmTemplate))

// RenderConfirmation renders the HTML body of a confirmation email.
func RenderConfirmation(c Confirmation, appName string) (string, error) {
	data := struct {
		Username string
		Link     string
		AppName  string
	}{
		Username: c.Username,
		Link:     c.Link(),
		AppName:  appName,
	}

	var buf bytes.Buffer
	if err := confirmTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation email: %w", err)
	}
	return buf.String(), nil
}
