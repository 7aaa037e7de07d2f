// Package config turns a flat environment namespace into a validated,
// immutable configuration snapshot for proxyforge.
//
// # Loading
//
// LoadEnvironment layers an optional dotenv file under the process
// environment and returns a MapSource:
//
//	src, err := config.LoadEnvironment(".env")
//	if err != nil {
//	    return err
//	}
//	cfg, err := config.Build(src)
//
// # Keys
//
// Global keys are listed in keys.go. Services are declared as numbered
// blocks counted by SERVICE_COUNT:
//
//	SERVICE_COUNT=2
//	SERVICE_1_NAME=web
//	SERVICE_1_PATH=/
//	SERVICE_1_PORT=3000
//	SERVICE_2_NAME=api
//	SERVICE_2_DOMAIN=api.example.com
//	SERVICE_2_PORT=8080
//	SERVICE_2_SSL=true
//
// Blocks are read once into an ordered []Service; nothing downstream looks
// up indexed keys again.
//
// # Validation
//
// Build fails on the first problem, in a fixed key order. Every error
// matches one class via errors.Is:
//
//   - ErrMissingConfiguration: a required key is absent (*MissingFieldError)
//   - ErrInvalidValue: a value cannot be parsed or is out of range (*FieldError)
//   - ErrInvalidCombination: a cross-field rule is violated (*CombinationError),
//     e.g. renewal without a contact email or two services on the root path
//
// A service block that declares neither a path nor a domain is skipped and
// recorded in Config.Skipped.
package config
