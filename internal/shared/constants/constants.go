package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Product name used in mail headers
	ProductName = "Verbatim"

	// Database table names
	TableUsers                     = "users"
	TableProfiles                  = "profiles"
	TableProfileLanguages          = "profile_languages"
	TableProfileSecondaryLanguages = "profile_secondary_languages"
	TableProfileSubscriptions      = "profile_subscriptions"

	// Mail headers added to every notification
	HeaderAutoSubmitted = "Auto-Submitted"
	HeaderAutoGenerated = "X-AutoGenerated"
	HeaderPrecedence    = "Precedence"
	HeaderMailer        = "X-Mailer"

	// Recipient sentinel routing a notification to the site administrators
	RecipientAdmins = "ADMINS"

	// Default permission groups
	GroupUsers    = "Users"
	GroupManagers = "Managers"
)
