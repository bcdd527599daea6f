package mailer_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/system/mailer"
)

func TestBuildApprovalEmail(t *testing.T) {
	email := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: "SprintHub",
		Username: "dmorgan",
	})

	if !strings.Contains(email.Subject, "SprintHub") {
		t.Errorf("subject missing site name: %q", email.Subject)
	}
	if !strings.Contains(email.TextBody, "dmorgan") {
		t.Error("text body missing username")
	}
	if !strings.Contains(email.HTMLBody, "dmorgan") {
		t.Error("HTML body missing username")
	}
	if !strings.Contains(email.TextBody, "approved") {
		t.Error("text body missing approval wording")
	}
}

func TestBuildVisitorApprovalEmail(t *testing.T) {
	email := mailer.BuildVisitorApprovalEmail(mailer.VisitorApprovalEmailData{
		SiteName:    "SprintHub",
		Username:    "vpatel",
		ProjectName: "Orion",
	})

	if !strings.Contains(email.TextBody, "Orion") {
		t.Error("text body missing project name")
	}
	if !strings.Contains(email.HTMLBody, "Orion") {
		t.Error("HTML body missing project name")
	}
}

func TestBuildApprovalEmail_SignInLink(t *testing.T) {
	email := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: "SprintHub",
		Username: "dmorgan",
		BaseURL:  "https://sprinthub.example.com",
	})

	if !strings.Contains(email.TextBody, "https://sprinthub.example.com") {
		t.Error("text body missing sign-in link")
	}
	if !strings.Contains(email.HTMLBody, `href="https://sprinthub.example.com"`) {
		t.Error("HTML body missing sign-in link")
	}

	plain := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: "SprintHub",
		Username: "dmorgan",
	})
	if strings.Contains(plain.HTMLBody, "href=") {
		t.Error("expected no link when base URL is unset")
	}
}

func TestBuildVisitorApprovalEmail_EscapesHTML(t *testing.T) {
	email := mailer.BuildVisitorApprovalEmail(mailer.VisitorApprovalEmailData{
		SiteName:    "SprintHub",
		Username:    "v",
		ProjectName: "<script>alert(1)</script>",
	})

	if strings.Contains(email.HTMLBody, "<script>") {
		t.Error("HTML body did not escape project name")
	}
}
