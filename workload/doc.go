// Package workload drives a bounded queue with concurrent producers and
// consumers and verifies that every item is delivered exactly once and in
// per-producer order.
//
// A run is described by a Config, usually loaded from YAML:
//
//	variant: semaphore
//	capacity: 16
//	producers: 8
//	consumers: 2
//	items_per_producer: 5000
//
// and executed with Run, which returns a Report.
package workload
