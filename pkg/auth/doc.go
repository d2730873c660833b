// Package auth provides credential hashing and bearer token issuance for the catalog service.
//
// # Overview
//
// Two concerns live here: one-way password hashing (bcrypt with a fresh
// salt per call) and stateless signed tokens (HS256 JWTs with a fixed
// one-hour lifetime). Tokens are self-contained: validity is determined
// entirely by signature correctness and expiry, there is no server-side
// session or revocation store.
//
// # Token Flow
//
// Issue on login/registration:
//
//	svc := auth.NewTokenService(secret, auth.DefaultTokenTTL)
//	token, err := svc.Issue(user.ID, user.IsAdmin)
//
// Verify on each request:
//
//	claims, err := svc.Verify(tokenString)
//	// errors.Is(err, auth.ErrExpiredToken) etc. for internal handling;
//	// clients always see the single auth.ErrInvalidToken message.
//
// # Related Packages
//
//   - pkg/middleware: HTTP authentication middleware
//   - pkg/api: registration and login handlers
package auth
