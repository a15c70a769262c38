package notification

import (
	"bytes"
	"html/template"
)

// SubjectPrefix is prepended to every outgoing notification subject.
const SubjectPrefix = "Stockroom Alert - "

// alertTmpl renders a Message as an HTML stock alert. Values are escaped by
// html/template.
var alertTmpl = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:24px;background:#f4f4f5;font-family:Arial,sans-serif;color:#1f2933;">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#1c2a1f;color:#ffffff;padding:16px 24px;font-size:18px;font-weight:bold;">Stockroom</div>
    <div style="background:#fef3c7;border-left:4px solid #d97706;padding:12px 24px;font-weight:bold;color:#78350f;">{{.Subject}}</div>
    {{- if .Fields}}
    <table role="presentation" style="width:100%;border-collapse:collapse;margin:16px 0;">
      {{- range .Fields}}
      <tr>
        <td style="padding:6px 24px;color:#7b8794;width:35%;">{{.Label}}</td>
        <td style="padding:6px 24px;font-weight:bold;">{{.Value}}</td>
      </tr>
      {{- end}}
    </table>
    {{- else}}
    <pre style="padding:16px 24px;white-space:pre-wrap;font-family:inherit;">{{.Body}}</pre>
    {{- end}}
    <div style="padding:12px 24px;border-top:1px solid #e5e7eb;font-size:12px;color:#9ca3af;">
      Sent because low-stock alerts are enabled for this stockroom instance.
    </div>
  </div>
</body>
</html>
`))

func buildSubject(subject string) string {
	return SubjectPrefix + subject
}

// renderHTML renders msg with the alert template.
func renderHTML(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := alertTmpl.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}
