// Package middleware provides HTTP middleware for authentication and
// role-gated authorization.
//
// AuthMiddleware extracts and verifies a Bearer token, attaching the
// claims to the request context. Two rejection outcomes are kept
// distinct: a missing or malformed Authorization header is 401, a
// present-but-invalid token is 403. RequireAdmin layers the role check
// on top and is applied only to mutating routes.
package middleware
