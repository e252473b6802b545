// Package auth implements the authentication core of the backend: password
// verification, token issuance and decoding, session verification, and the
// revocation registry that invalidates tokens before their natural expiry.
//
// The package deliberately splits responsibilities: the TokenService only
// proves a token was signed by us, the SessionVerifier decides whether it is
// currently usable, and the Authenticator drives the login, logout, register,
// and refresh operations on top of both.
package auth
