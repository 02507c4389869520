// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report derives the display values the dashboard shows next to raw
// counts: vote shares, turnout, formatted numbers and seat drift.
package report
