// internal/app/bootstrap/engine.go
package bootstrap

import (
	"github.com/dalemusser/sprinthub/internal/app/notify"
	"github.com/dalemusser/sprinthub/internal/app/system/mailer"
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// buildEngine assembles the workflow engine and its notification
// pipeline from app config: SMTP mailer behind the Notifier seam,
// dispatcher on top, engine on top of that.
func buildEngine(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *workflow.Engine {
	m := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	dispatcher := notify.New(db, m, logger, appCfg.SiteName, appCfg.BaseURL)
	return workflow.New(db, dispatcher, logger)
}
