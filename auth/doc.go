// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, bearer tokens, and the request-scoped
user identity.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password) // ErrInvalidPassword on mismatch

# Bearer Tokens

Tokens are HS256 JWTs. The subject is the user id and every token carries a
random jti so it can be revoked on logout:

	tokens := auth.NewTokens(secret, issuer, audience, ttl)
	signed, claims, err := tokens.Issue(userID, email)
	claims, err = tokens.Parse(signed) // ErrInvalidToken on any failure

Parse checks signature, algorithm, issuer, audience and expiry.

# Refresh Tokens

Random 24-byte (192-bit) secrets returned at login:

	token, err := auth.GenerateRefreshToken()

# Current User

The auth middleware stores validated claims on the request context. Handlers
read the id once and pass it explicitly to the service layer:

	userID := auth.UserIDFrom(r.Context())
*/
package auth
