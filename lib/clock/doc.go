// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that reads the time accepts a Clock instead of calling time.Now
// directly. Production code passes Real(); tests pass Fake() and get
// stable timestamps in reports, entry times and run durations.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	result, err := assemble.Run(ctx, cfg, assemble.Options{Clock: c})
package clock
