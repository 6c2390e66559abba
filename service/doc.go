// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package service turns store snapshots into API responses.

Polls and Users sit between the HTTP handlers and the store. Every method takes
the caller's user id (or claims) as an argument; nothing is read from ambient
state. Lifecycle status is computed from the clock on each call, so the same
poll can be active on one request and closed on the next.

Tests swap the clock with WithClock:

	svc := service.NewPolls(db).WithClock(func() time.Time { return fixed })
*/
package service
