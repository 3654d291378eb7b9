// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package layout turns a ledger snapshot and bucket geometry into token
// transforms for the front end. Every function is pure; recompute on each
// ledger change or resize.
package layout
