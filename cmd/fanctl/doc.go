// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Fanctl controls the fan of a Framework laptop through its ChromeOS
// embedded controller. "fanctl run" is the daemon; use, reset, reload,
// pause, resume and print talk to it over a Unix socket; sanity-check
// probes the EC directly.
package main
