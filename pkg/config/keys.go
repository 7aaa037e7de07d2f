package config

import "fmt"

// Global environment keys.
const (
	KeyServiceCount = "SERVICE_COUNT"

	KeyWorkerProcesses     = "NGINX_WORKER_PROCESSES"
	KeyWorkerConnections   = "NGINX_WORKER_CONNECTIONS"
	KeyKeepaliveTimeout    = "NGINX_KEEPALIVE_TIMEOUT"
	KeyClientMaxBodySize   = "NGINX_CLIENT_MAX_BODY_SIZE"
	KeyProxyConnectTimeout = "NGINX_PROXY_CONNECT_TIMEOUT"
	KeyProxyReadTimeout    = "NGINX_PROXY_READ_TIMEOUT"
	KeyProxySendTimeout    = "NGINX_PROXY_SEND_TIMEOUT"
	KeyNginxImage          = "NGINX_IMAGE"

	KeyLogMode          = "LOG_MODE"
	KeyLogLevel         = "LOG_LEVEL"
	KeyAccessLogEnabled = "ACCESS_LOG_ENABLED"
	KeyErrorLogEnabled  = "ERROR_LOG_ENABLED"
	KeyLogPath          = "LOG_PATH"

	KeyRateLimitEnabled = "RATE_LIMIT_ENABLED"
	KeyRateLimitZone    = "RATE_LIMIT_ZONE"
	KeyRateLimitRate    = "RATE_LIMIT_RATE"
	KeyRateLimitBurst   = "RATE_LIMIT_BURST"

	KeyCertbotEnabled       = "CERTBOT_ENABLED"
	KeyCertbotEmail         = "CERTBOT_EMAIL"
	KeyCertbotAutoRenew     = "CERTBOT_AUTO_RENEW"
	KeyCertbotRenewSchedule = "CERTBOT_RENEW_SCHEDULE"
	KeyCertbotImage         = "CERTBOT_IMAGE"

	KeyNetworkName = "NETWORK_NAME"
)

// ServiceField names one per-service key suffix.
type ServiceField string

// Per-service key suffixes.
const (
	FieldName      ServiceField = "NAME"
	FieldPath      ServiceField = "PATH"
	FieldPort      ServiceField = "PORT"
	FieldDomain    ServiceField = "DOMAIN"
	FieldSSL       ServiceField = "SSL"
	FieldRateLimit ServiceField = "RATE_LIMIT"
	FieldAccessLog ServiceField = "ACCESS_LOG"
	FieldErrorLog  ServiceField = "ERROR_LOG"
	FieldLogPath   ServiceField = "LOG_PATH"
	FieldAutoRenew ServiceField = "AUTO_RENEW"
)

// ServiceKey returns the environment key of field for the service at the
// 1-based index n, e.g. ServiceKey(2, FieldPort) is "SERVICE_2_PORT".
func ServiceKey(n int, field ServiceField) string {
	return fmt.Sprintf("SERVICE_%d_%s", n, field)
}

// Source is a read-only view of the flat key-value configuration namespace.
type Source interface {
	// Lookup returns the raw value of key and whether it is set.
	Lookup(key string) (string, bool)
}

// MapSource is a Source backed by a plain map. It is what LoadEnvironment
// returns and what tests construct directly.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
