package config

import (
	"net/mail"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

var (
	// nginxTimePattern matches nginx time values such as "60", "60s" or "5m".
	nginxTimePattern = regexp.MustCompile(`^[0-9]+(ms|s|m|h|d)?$`)

	// nginxSizePattern matches nginx size values such as "1024", "10k" or "10m".
	nginxSizePattern = regexp.MustCompile(`^[0-9]+[kKmMgG]?$`)

	// ratePattern matches limit_req_zone rates.
	ratePattern = regexp.MustCompile(`^[1-9][0-9]*r/[sm]$`)

	// zonePattern matches limit_req_zone names.
	zonePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	// hostnamePattern matches service names and docker network names.
	hostnamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

	// domainPattern matches virtual host names.
	domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)*[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

	// pathPattern matches the characters allowed in a normalised path route.
	pathPattern = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)
)

// reservedDomains would collide with fixed document names.
var reservedDomains = map[string]bool{
	"default": true,
}

// Build validates src and returns the typed configuration.
//
// Validation fails fast: the first problem found is returned. Keys are
// inspected in a fixed order (service count, nginx tuning, logging, rate
// limiting, certificates, network, then services 1..N), so a
// MissingFieldError always names the first absent required key in that
// order. Cross-service constraints (duplicate root paths, duplicate paths,
// duplicate domains) are checked after every service parsed cleanly.
//
// Build performs no I/O.
func Build(src Source) (*Config, error) {
	b := &builder{src: src}
	cfg := &Config{}

	count := b.requiredInt(KeyServiceCount, 0, -1)

	// Nginx tuning
	cfg.Nginx.WorkerProcesses = b.workerProcesses(KeyWorkerProcesses)
	cfg.Nginx.WorkerConnections = b.requiredInt(KeyWorkerConnections, 1, -1)
	cfg.Nginx.KeepaliveTimeout = b.requiredPattern(KeyKeepaliveTimeout, nginxTimePattern, "must be an nginx time value")
	cfg.Nginx.ClientMaxBodySize = b.requiredPattern(KeyClientMaxBodySize, nginxSizePattern, "must be an nginx size value")
	cfg.Nginx.ProxyConnectTimeout = b.requiredPattern(KeyProxyConnectTimeout, nginxTimePattern, "must be an nginx time value")
	cfg.Nginx.ProxyReadTimeout = b.requiredPattern(KeyProxyReadTimeout, nginxTimePattern, "must be an nginx time value")
	cfg.Nginx.ProxySendTimeout = b.requiredPattern(KeyProxySendTimeout, nginxTimePattern, "must be an nginx time value")
	cfg.Nginx.Image = b.optional(KeyNginxImage, DefaultNginxImage)

	// Logging
	cfg.Logging.Mode = b.logMode(KeyLogMode)
	cfg.Logging.Level = b.logLevel(KeyLogLevel)
	cfg.Logging.AccessLog = b.optionalBool(KeyAccessLogEnabled, DefaultAccessLog)
	cfg.Logging.ErrorLog = b.optionalBool(KeyErrorLogEnabled, DefaultErrorLog)
	if cfg.Logging.Mode == LogModeFile {
		cfg.Logging.Path = b.absPath(KeyLogPath, true)
	}

	// Rate limiting
	cfg.RateLimit.Enabled = b.optionalBool(KeyRateLimitEnabled, false)
	if cfg.RateLimit.Enabled {
		cfg.RateLimit.Zone = b.requiredPattern(KeyRateLimitZone, zonePattern, "must contain only letters, digits and underscores")
		cfg.RateLimit.Rate = b.requiredPattern(KeyRateLimitRate, ratePattern, `must look like "10r/s" or "100r/m"`)
		cfg.RateLimit.Burst = b.requiredInt(KeyRateLimitBurst, 0, -1)
	}

	// Certificates
	cfg.Certbot.Enabled = b.optionalBool(KeyCertbotEnabled, false)
	cfg.Certbot.AutoRenew = b.optionalBool(KeyCertbotAutoRenew, false)
	if cfg.Certbot.Enabled {
		cfg.Certbot.Email = b.email(KeyCertbotEmail, true)
	} else {
		cfg.Certbot.Email = b.email(KeyCertbotEmail, false)
	}
	if b.err == nil && cfg.Certbot.AutoRenew && cfg.Certbot.Email == "" {
		b.err = &CombinationError{
			Keys:    []string{KeyCertbotAutoRenew, KeyCertbotEmail},
			Message: "certificate renewal requires a contact email",
		}
	}
	cfg.Certbot.RenewSchedule = b.schedule(KeyCertbotRenewSchedule)
	cfg.Certbot.Image = b.optional(KeyCertbotImage, DefaultCertbotImage)

	// Network
	cfg.Network.Name = b.optional(KeyNetworkName, DefaultNetworkName)
	if b.err == nil && !hostnamePattern.MatchString(cfg.Network.Name) {
		b.err = &FieldError{Field: KeyNetworkName, Value: cfg.Network.Name, Message: "must be a valid docker network name"}
	}

	// Services
	for n := 1; n <= count && b.err == nil; n++ {
		svc, active := b.service(n)
		if b.err != nil {
			break
		}
		if !active {
			cfg.Skipped = append(cfg.Skipped, n)
			continue
		}
		cfg.Services = append(cfg.Services, svc)
	}

	if b.err != nil {
		return nil, b.err
	}

	if err := validateRoutes(cfg.Services); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRoutes checks constraints that span several services.
func validateRoutes(services []Service) error {
	var roots []string
	paths := make(map[string]int)
	domains := make(map[string]int)

	for _, svc := range services {
		if svc.HasPath() {
			key := ServiceKey(svc.Index, FieldPath)
			if svc.IsRoot() {
				roots = append(roots, key)
			} else if svc.Path == ChallengeRoute || strings.HasPrefix(svc.Path, ChallengeRoute+"/") {
				return &CombinationError{
					Keys:    []string{key},
					Message: "path " + svc.Path + " is reserved for ACME challenges",
				}
			} else if prev, ok := paths[svc.Path]; ok {
				return &CombinationError{
					Keys:    []string{ServiceKey(prev, FieldPath), key},
					Message: "path " + svc.Path + " is declared by more than one service",
				}
			} else {
				paths[svc.Path] = svc.Index
			}
		}

		if svc.HasDomain() {
			key := ServiceKey(svc.Index, FieldDomain)
			if prev, ok := domains[svc.Domain]; ok {
				return &CombinationError{
					Keys:    []string{ServiceKey(prev, FieldDomain), key},
					Message: "domain " + svc.Domain + " is declared by more than one service",
				}
			}
			domains[svc.Domain] = svc.Index
		}
	}

	if len(roots) > 1 {
		return &CombinationError{
			Keys:    roots,
			Message: "at most one service may bind the root path",
		}
	}

	return nil
}

// builder reads typed values from a Source. The first failure is kept in
// err and turns every later call into a no-op returning the zero value.
type builder struct {
	src Source
	err error
}

// lookup returns the trimmed value of key. Empty values count as absent.
func (b *builder) lookup(key string) (string, bool) {
	if b.err != nil {
		return "", false
	}
	v, ok := b.src.Lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (b *builder) required(key string) (string, bool) {
	v, ok := b.lookup(key)
	if !ok && b.err == nil {
		b.err = &MissingFieldError{Key: key}
	}
	return v, ok
}

func (b *builder) invalid(key, value, message string) {
	if b.err == nil {
		b.err = &FieldError{Field: key, Value: value, Message: message}
	}
}

func (b *builder) optional(key, def string) string {
	if v, ok := b.lookup(key); ok {
		return v
	}
	return def
}

// requiredInt parses key as an integer in [min, max]; max < 0 means unbounded.
func (b *builder) requiredInt(key string, min, max int) int {
	v, ok := b.required(key)
	if !ok {
		return 0
	}
	return b.parseInt(key, v, min, max)
}

func (b *builder) parseInt(key, v string, min, max int) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		b.invalid(key, v, "must be an integer")
		return 0
	}
	if i < min || (max >= 0 && i > max) {
		if max >= 0 {
			b.invalid(key, v, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		} else {
			b.invalid(key, v, "must be at least "+strconv.Itoa(min))
		}
		return 0
	}
	return i
}

func (b *builder) optionalBool(key string, def bool) bool {
	v, ok := b.lookup(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		b.invalid(key, v, "must be true or false")
		return def
	}
	return parsed
}

func (b *builder) requiredPattern(key string, re *regexp.Regexp, message string) string {
	v, ok := b.required(key)
	if !ok {
		return ""
	}
	if !re.MatchString(v) {
		b.invalid(key, v, message)
		return ""
	}
	return v
}

func (b *builder) workerProcesses(key string) string {
	v, ok := b.required(key)
	if !ok {
		return ""
	}
	if v == "auto" {
		return v
	}
	return strconv.Itoa(b.parseInt(key, v, 1, -1))
}

func (b *builder) logMode(key string) LogMode {
	v, ok := b.required(key)
	if !ok {
		return ""
	}
	switch mode := LogMode(strings.ToLower(v)); mode {
	case LogModeFile, LogModeStdout:
		return mode
	default:
		b.invalid(key, v, `must be "file" or "stdout"`)
		return ""
	}
}

func (b *builder) logLevel(key string) string {
	v, ok := b.required(key)
	if !ok {
		return ""
	}
	level := strings.ToLower(v)
	if !validLogLevels[level] {
		b.invalid(key, v, "must be one of debug, info, notice, warn, error, crit, alert, emerg")
		return ""
	}
	return level
}

// absPath reads an absolute directory path and returns it cleaned.
func (b *builder) absPath(key string, required bool) string {
	var (
		v  string
		ok bool
	)
	if required {
		v, ok = b.required(key)
	} else {
		v, ok = b.lookup(key)
	}
	if !ok {
		return ""
	}
	if !path.IsAbs(v) {
		b.invalid(key, v, "must be an absolute path")
		return ""
	}
	return path.Clean(v)
}

func (b *builder) email(key string, required bool) string {
	var (
		v  string
		ok bool
	)
	if required {
		v, ok = b.required(key)
	} else {
		v, ok = b.lookup(key)
	}
	if !ok {
		return ""
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		b.invalid(key, v, "must be a plain email address")
		return ""
	}
	return v
}

func (b *builder) schedule(key string) string {
	v := b.optional(key, DefaultRenewSchedule)
	if b.err != nil {
		return ""
	}
	if _, err := cron.ParseStandard(v); err != nil {
		b.invalid(key, v, "must be a standard cron expression: "+err.Error())
		return ""
	}
	return v
}

// service reads SERVICE_<n>_*. It reports active=false for a descriptor
// that declares neither a path nor a domain; such a descriptor is not
// validated any further.
func (b *builder) service(n int) (Service, bool) {
	svc := Service{Index: n}

	rawPath, hasPath := b.lookup(ServiceKey(n, FieldPath))
	rawDomain, hasDomain := b.lookup(ServiceKey(n, FieldDomain))
	if !hasPath && !hasDomain {
		return svc, false
	}

	nameKey := ServiceKey(n, FieldName)
	if name, ok := b.required(nameKey); ok {
		if !hostnamePattern.MatchString(name) {
			b.invalid(nameKey, name, "must be a valid hostname")
		}
		svc.Name = name
	}
	svc.Port = b.requiredInt(ServiceKey(n, FieldPort), 1, 65535)

	if hasPath {
		svc.Path = b.routePath(ServiceKey(n, FieldPath), rawPath)
	}
	if hasDomain {
		svc.Domain = b.domain(ServiceKey(n, FieldDomain), rawDomain)
	}

	svc.SSL = b.optionalBool(ServiceKey(n, FieldSSL), false)
	svc.RateLimit = b.optionalBool(ServiceKey(n, FieldRateLimit), false)
	svc.AccessLog = b.optionalBool(ServiceKey(n, FieldAccessLog), false)
	svc.ErrorLog = b.optionalBool(ServiceKey(n, FieldErrorLog), false)
	svc.LogPath = b.absPath(ServiceKey(n, FieldLogPath), false)
	svc.AutoRenew = b.optionalBool(ServiceKey(n, FieldAutoRenew), false)

	if b.err == nil && svc.SSL && !svc.HasDomain() {
		b.err = &CombinationError{
			Keys:    []string{ServiceKey(n, FieldSSL), ServiceKey(n, FieldDomain)},
			Message: "SSL requires a domain",
		}
	}

	return svc, true
}

// routePath normalises a path route: a leading slash is added and trailing
// slashes are removed, so "api/", "/api" and "/api/" are all "/api".
func (b *builder) routePath(key, raw string) string {
	p := strings.TrimRight(raw, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !pathPattern.MatchString(p) || strings.Contains(p, "//") {
		b.invalid(key, raw, "must be a URL path")
		return ""
	}
	return p
}

func (b *builder) domain(key, raw string) string {
	d := strings.ToLower(strings.TrimSuffix(raw, "."))
	if !domainPattern.MatchString(d) {
		b.invalid(key, raw, "must be a valid domain name")
		return ""
	}
	if reservedDomains[d] {
		b.invalid(key, raw, "is reserved")
		return ""
	}
	return d
}
