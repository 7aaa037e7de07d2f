package policy

import (
	"path"
	"time"

	"proxyforge-hq/proxyforge/pkg/config"
)

// Certificate locations shared by the nginx and certbot containers.
const (
	// LetsEncryptDir is where certbot stores certificates.
	LetsEncryptDir = "/etc/letsencrypt"

	// WebrootDir is the HTTP-01 challenge webroot served by nginx.
	WebrootDir = "/var/www/certbot"

	// ChallengePath is the location prefix of ACME HTTP-01 challenges.
	ChallengePath = config.ChallengeRoute + "/"
)

// TLSPolicy is the resolved TLS decision for one service.
type TLSPolicy struct {
	// Enabled is true when the service's domain gets an encrypted listener.
	Enabled bool

	// Domain is the certificate name (the service domain).
	Domain string

	// Renew is true when the certificate joins the renewal loop.
	Renew bool
}

// CertificatePath returns the fullchain path certbot writes for the domain.
func (p TLSPolicy) CertificatePath() string {
	return path.Join(LetsEncryptDir, "live", p.Domain, "fullchain.pem")
}

// KeyPath returns the private key path certbot writes for the domain.
func (p TLSPolicy) KeyPath() string {
	return path.Join(LetsEncryptDir, "live", p.Domain, "privkey.pem")
}

// ResolveTLS resolves the TLS decision of svc. Renewal is only ever set for
// an SSL service; a renewal toggle on a plaintext service is dropped.
func ResolveTLS(svc config.Service) TLSPolicy {
	if !svc.SSL || !svc.HasDomain() {
		return TLSPolicy{}
	}
	return TLSPolicy{
		Enabled: true,
		Domain:  svc.Domain,
		Renew:   svc.AutoRenew,
	}
}

// CertificatePlan holds the derived domain lists that parameterise the
// certbot processes.
type CertificatePlan struct {
	// Issuance lists the domains of every SSL service, in declared order.
	Issuance []string

	// Renewal lists the issuance domains whose service opted into renewal.
	// It is always a subset of Issuance.
	Renewal []string

	// Email is the ACME contact address.
	Email string

	// RenewInterval is the pause between renewal passes.
	RenewInterval time.Duration

	issueEnabled bool
	renewEnabled bool
}

// EmitIssuance reports whether the one-shot issuance process is emitted:
// the global toggle is on and at least one domain needs a certificate.
func (p CertificatePlan) EmitIssuance() bool {
	return p.issueEnabled && len(p.Issuance) > 0
}

// EmitRenewal reports whether the renewal loop is emitted: the global
// toggle is on and at least one domain opted into renewal.
func (p CertificatePlan) EmitRenewal() bool {
	return p.renewEnabled && len(p.Renewal) > 0
}

// Certificates derives the certificate plan from the service list. The
// lists are built in one pass and returned as fresh slices.
func Certificates(cfg *config.Config) (CertificatePlan, error) {
	plan := CertificatePlan{
		Email:        cfg.Certbot.Email,
		issueEnabled: cfg.Certbot.Enabled,
		renewEnabled: cfg.Certbot.AutoRenew,
	}

	seen := make(map[string]bool)
	for _, svc := range cfg.Services {
		tls := ResolveTLS(svc)
		if !tls.Enabled || seen[tls.Domain] {
			continue
		}
		seen[tls.Domain] = true

		plan.Issuance = append(plan.Issuance, tls.Domain)
		if tls.Renew {
			plan.Renewal = append(plan.Renewal, tls.Domain)
		}
	}

	if plan.EmitRenewal() {
		interval, err := RenewInterval(cfg.Certbot.RenewSchedule)
		if err != nil {
			return CertificatePlan{}, err
		}
		plan.RenewInterval = interval
	}

	return plan, nil
}
