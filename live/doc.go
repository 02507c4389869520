// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package live pushes election summary changes to connected clients. A Hub
// polls the database on the server's refresh interval, or sooner after a
// vote is captured, and fans changed summaries out to subscribers.
package live
