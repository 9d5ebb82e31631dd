// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by every route.

WithLogging emits a debug "request started" and an info "request completed"
record through log/slog, including the response status and duration. Every
request gets an ID from X-Request-ID (or a fresh uuid), echoed back and
readable from the handler:

	id := middleware.RequestID(r.Context())

CORS reflects the caller's Origin, admits the X-Admin-Key and X-Request-ID
headers, and exposes X-Request-ID and X-Cache to browsers. Preflight
requests are answered directly.

JSONResponse, ErrorResponse and ParseJSONBody are the JSON helpers handlers
use for bodies; errors are written as models.ErrorResponse.

GetClientIP resolves the voter's address from X-Forwarded-For (first hop),
X-Real-IP, then RemoteAddr. Ballots keep only an HMAC hash of it.
*/
package middleware
