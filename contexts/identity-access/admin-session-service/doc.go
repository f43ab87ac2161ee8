// Package adminsession issues and verifies the signed session tokens that
// gate every admin operation. Sessions are stateless HS256 JWTs: issuing
// checks the shared admin API key, verification checks signature and expiry
// only, so no session storage exists to fail over.
package adminsession
