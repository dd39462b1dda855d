// Package config loads the backend configuration used by idbridge connectors.
//
// A configuration names the backend endpoint, the API version and one usable
// set of credentials: either auth_token, or both username and password.
//
//	{
//	  "baseUrl": "https://cmdb.example.com/webservices/rest.php",
//	  "apiVersion": "1.3",
//	  "auth_token": "${ITOP_TOKEN}"
//	}
//
// # Loading
//
// Load reads JSON or YAML (by file extension), replaces ${VAR_NAME} references
// with environment values, applies IDBRIDGE_* overrides (IDBRIDGE_BASE_URL,
// IDBRIDGE_AUTH_TOKEN, ...) and validates. Every failure is reported as a
// configuration error before any connector is constructed.
//
//	cfg, err := config.Load("config.json")
//	if err != nil {
//		return err
//	}
//
// # TLS
//
// Certificates are verified unless insecureSkipVerify is set. Backends with
// self-signed certificates need the flag; the HTTP client logs a warning
// whenever it is in effect.
package config
