package bootstrap

import (
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"github.com/dalemusser/sprinthub/internal/testutil"
	"go.uber.org/zap"
)

func TestBuildEngine_WiredFromConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	appCfg := AppConfig{
		MailSMTPHost: "localhost",
		MailSMTPPort: 1025,
		MailFrom:     "noreply@sprinthub.dev",
		MailFromName: "SprintHub",
		BaseURL:      "http://localhost:3000",
		SiteName:     "SprintHub",
	}

	engine := buildEngine(appCfg, db, zap.NewNop())
	if engine == nil {
		t.Fatal("expected an assembled engine")
	}

	// The assembled engine must be usable end to end.
	admin := fixtures.CreateAdmin(ctx, "root")
	team, err := engine.CreateTeam(ctx, testutil.Identity(admin), workflow.CreateTeamInput{
		Name: "Platform",
	})
	if err != nil {
		t.Fatalf("CreateTeam through built engine failed: %v", err)
	}
	if team.Name != "Platform" {
		t.Errorf("Name: got %q", team.Name)
	}
}
