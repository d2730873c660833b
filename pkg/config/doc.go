// Package config provides application configuration management from environment variables.
//
// All settings use the CATALOG_ prefix. The token signing secret
// (CATALOG_JWT_SECRET) has no default: startup fails loudly when it is
// absent rather than proceeding insecurely.
package config
