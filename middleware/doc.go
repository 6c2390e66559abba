// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Assigns or propagates X-Request-ID, logs request start and completion
(status, duration_ms), and records Prometheus request metrics labelled by
the matched route pattern.

# Authentication

RequireAuth checks the bearer token and the revocation list, then stores
the claims on the request context:

	requireAuth := middleware.RequireAuth(tokens, revoker)
	mux.HandleFunc("GET /users/me", middleware.WithLogging(requireAuth(h.GetMe)))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin)(mux),
	}

An origin of "*" reflects the caller's Origin so credentials still work.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Decode and validate a request body in one step:

	var req models.CreatePollRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)
*/
package middleware
