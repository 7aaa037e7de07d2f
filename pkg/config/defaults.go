package config

// Default values for optional keys.
const (
	// DefaultNetworkName is used when NETWORK_NAME is absent.
	DefaultNetworkName = "proxy-network"

	// DefaultNginxImage is the proxy container image.
	DefaultNginxImage = "nginx:alpine"

	// DefaultCertbotImage is the issuance and renewal container image.
	DefaultCertbotImage = "certbot/certbot"

	// DefaultRenewSchedule runs the renewal loop twice a day.
	DefaultRenewSchedule = "0 */12 * * *"

	// DefaultAccessLog and DefaultErrorLog apply when the global toggles are absent.
	DefaultAccessLog = true
	DefaultErrorLog  = true
)

// validLogLevels are the error_log severities nginx accepts.
var validLogLevels = map[string]bool{
	"debug":  true,
	"info":   true,
	"notice": true,
	"warn":   true,
	"error":  true,
	"crit":   true,
	"alert":  true,
	"emerg":  true,
}
