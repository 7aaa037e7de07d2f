package render

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"proxyforge-hq/proxyforge/pkg/policy"
	"proxyforge-hq/proxyforge/pkg/routing"
)

// FuncMap returns the template function map shared by every nginx template:
// the deterministic Sprig text functions plus proxyforge constants.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	// Sprig helpers that read the clock or a random source would break
	// byte-identical output.
	for _, name := range []string{
		"now", "date", "dateInZone", "date_in_zone", "ago", "unixEpoch",
		"randAlpha", "randAlphaNum", "randAscii", "randNumeric", "randBytes", "randInt",
		"uuidv4", "genPrivateKey", "genCA", "genSelfSignedCert", "genSignedCert",
		"env", "expandenv",
	} {
		delete(fm, name)
	}

	fm["challengePath"] = func() string { return policy.ChallengePath }
	fm["webroot"] = func() string { return policy.WebrootDir }
	fm["fallbackBody"] = func() string { return routing.FallbackBody }

	return fm
}
