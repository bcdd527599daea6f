// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, timeouts); AppConfig is everything specific to SprintHub.
// The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty skips auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@sprinthub.dev)
	MailFromName string // From display name (e.g., SprintHub)

	// Base URL for links in approval emails
	BaseURL string // e.g., "https://sprinthub.dev" or "http://localhost:3000"

	// Site name used in notification and email copy
	SiteName string

	// Bootstrap admin: created or promoted on startup when set
	BootstrapAdminUsername string
}
