// Package api implements the HTTP/JSON surface of the catalog service.
//
// # Routes
//
//	POST   /api/users/register   register, returns a bearer token
//	POST   /api/users/login      login, returns token + profile
//	GET    /api/products         public listing
//	GET    /api/products/{id}    public detail
//	POST   /api/products         admin only
//	PUT    /api/products/{id}    admin only, partial update
//	DELETE /api/products/{id}    admin only
//
// Mutating product routes run behind the auth gate plus the admin
// check; reads are unauthenticated.
package api
