package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	verifyTmpl = template.Must(template.New("verify").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome, {{.Handle}}!</h2>
  <p>Confirm your email address to activate your account. This link expires in 24 hours.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 20px;background:#2d6cdf;color:#fff;text-decoration:none;border-radius:4px;">Verify email</a></p>
  <p>If you did not create an account, you can ignore this message.</p>
</body>
</html>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password reset</h2>
  <p>Hi {{.Handle}}, someone requested a password reset for your account. This link expires in 1 hour.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:10px 20px;background:#2d6cdf;color:#fff;text-decoration:none;border-radius:4px;">Reset password</a></p>
  <p>If this wasn't you, no action is needed.</p>
</body>
</html>`))

	changedTmpl = template.Must(template.New("changed").Parse(`<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password changed</h2>
  <p>Hi {{.Handle}}, the password on your account was just changed.</p>
  <p>If this wasn't you, request a password reset immediately.</p>
</body>
</html>`))
)

type templateData struct {
	Handle string
	Link   string
}

func renderVerify(baseURL, handle, token string) (string, error) {
	return render(verifyTmpl, templateData{
		Handle: handle,
		Link:   fmt.Sprintf("%s/verify-email?token=%s", baseURL, token),
	})
}

func renderReset(baseURL, handle, token string) (string, error) {
	return render(resetTmpl, templateData{
		Handle: handle,
		Link:   fmt.Sprintf("%s/reset-password?token=%s", baseURL, token),
	})
}

func renderChanged(handle string) (string, error) {
	return render(changedTmpl, templateData{Handle: handle})
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}
