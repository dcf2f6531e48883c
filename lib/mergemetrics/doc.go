// Copyright 2026 The Shade Authors
// SPDX-License-Identifier: Apache-2.0

// Package mergemetrics records what a merge run did as Prometheus
// metrics.
//
// A merge is a batch job, not a server, so nothing is scraped. The
// run writes its registry to a node_exporter textfile
// ([PrometheusRecorder.WriteTextfile]) that a collector picks up from
// the build machine. Callers that do not want metrics pass
// [NoopRecorder].
package mergemetrics
