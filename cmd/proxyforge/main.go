// proxyforge generates an nginx reverse proxy and its docker compose stack
// from environment variables.
//
// Services are declared as numbered variable blocks:
//
//	SERVICE_COUNT=2
//	SERVICE_1_NAME=web
//	SERVICE_1_PATH=/
//	SERVICE_1_PORT=3000
//	SERVICE_2_NAME=shop
//	SERVICE_2_DOMAIN=shop.example.com
//	SERVICE_2_PORT=4000
//	SERVICE_2_SSL=true
//
// Usage:
//
//	# Generate ./generated from the environment and .env
//	proxyforge
//
//	# Generate into another directory without touching docker
//	proxyforge generate --output /srv/proxy --skip-network
//
//	# Check the configuration only
//	proxyforge validate --env-file prod.env
//
//	# Show which service answers a path
//	proxyforge routes --resolve /api/users
package main

import "os"

func main() {
	os.Exit(Execute())
}
