// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is a lightweight metrics facade. It defaults to a no-op
// implementation; calling InitializePrometheusMetrics switches the whole
// process to prometheus meters.
package metrics

import "net/http"

type (
	// CountVecMeter counts events partitioned by labels.
	CountVecMeter interface {
		AddWithLabel(i int64, labels map[string]string)
	}

	// GaugeMeter holds a value that can go up and down.
	GaugeMeter interface {
		Set(i int64)
	}
)

// Metrics defines the interface of the metrics service implementation.
type Metrics interface {
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHandler() http.Handler
}

// metrics is the current implementation. Defaults to no-op.
var metrics Metrics = &noopMetrics{}

// CounterVec returns a labeled counter meter with the given name.
func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// Gauge returns a gauge meter with the given name.
func Gauge(name string) GaugeMeter {
	return metrics.GetOrCreateGaugeMeter(name)
}

// HTTPHandler returns the handler exposing collected metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}
