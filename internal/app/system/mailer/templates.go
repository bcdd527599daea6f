// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ApprovalEmailData holds data for the account-approval email. An
// empty BaseURL omits the sign-in link.
type ApprovalEmailData struct {
	SiteName string
	Username string
	BaseURL  string
}

// BuildApprovalEmail creates the email sent when an admin approves a
// user account, with both HTML and text bodies.
func BuildApprovalEmail(data ApprovalEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s account has been approved", data.SiteName),
		TextBody: buildApprovalText(data),
		HTMLBody: buildApprovalHTML(data),
	}
}

func buildApprovalText(data ApprovalEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.Username))
	buf.WriteString(fmt.Sprintf("Your %s account has been approved by the admin.\n\n", data.SiteName))
	buf.WriteString("You can now sign in and start working with your team.\n")
	if data.BaseURL != "" {
		buf.WriteString(fmt.Sprintf("\nSign in at %s\n", data.BaseURL))
	}
	return buf.String()
}

func buildApprovalHTML(data ApprovalEmailData) string {
	tmpl := template.Must(template.New("approval").Parse(approvalHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// VisitorApprovalEmailData holds data for the visitor-approval email.
// An empty BaseURL omits the sign-in link.
type VisitorApprovalEmailData struct {
	SiteName    string
	Username    string
	ProjectName string
	BaseURL     string
}

// BuildVisitorApprovalEmail creates the email sent when an admin
// approves a visitor and links them to a project's owner team.
func BuildVisitorApprovalEmail(data VisitorApprovalEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You have been granted access on %s", data.SiteName),
		TextBody: buildVisitorApprovalText(data),
		HTMLBody: buildVisitorApprovalHTML(data),
	}
}

func buildVisitorApprovalText(data VisitorApprovalEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.Username))
	buf.WriteString(fmt.Sprintf("Your visitor account has been approved and you now have access to the project %q.\n", data.ProjectName))
	if data.BaseURL != "" {
		buf.WriteString(fmt.Sprintf("\nSign in at %s\n", data.BaseURL))
	}
	return buf.String()
}

func buildVisitorApprovalHTML(data VisitorApprovalEmailData) string {
	tmpl := template.Must(template.New("visitorApproval").Parse(visitorApprovalHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const approvalHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Account Approved</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.Username}},</p>
              <p style="margin: 0; font-size: 16px; color: #374151;">
                Your account has been approved by the admin. You can now sign in and start working with your team.
              </p>
            </td>
          </tr>
          {{if .BaseURL}}
          <tr>
            <td style="padding: 0 32px 32px; text-align: center;">
              <a href="{{.BaseURL}}" style="display: inline-block; padding: 12px 24px; background-color: #4f46e5; color: #ffffff; font-size: 16px; font-weight: 600; text-decoration: none; border-radius: 6px;">Sign in</a>
            </td>
          </tr>
          {{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const visitorApprovalHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Access Granted</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.Username}},</p>
              <p style="margin: 0; font-size: 16px; color: #374151;">
                Your visitor account has been approved and you now have access to the project <strong>{{.ProjectName}}</strong>.
              </p>
            </td>
          </tr>
          {{if .BaseURL}}
          <tr>
            <td style="padding: 0 32px 32px; text-align: center;">
              <a href="{{.BaseURL}}" style="display: inline-block; padding: 12px 24px; background-color: #4f46e5; color: #ffffff; font-size: 16px; font-weight: 600; text-decoration: none; border-radius: 6px;">Sign in</a>
            </td>
          </tr>
          {{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
