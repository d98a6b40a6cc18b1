package metrics

// Stub implementations for monetization metrics - wire to Prometheus when available
// TODO: Replace with github.com/prometheus/client_golang/prometheus when wired

import (
	"log"
)

// Stub implementations that log metrics until Prometheus is wired
type StubCounterVec struct{ name string }
type StubGaugeVec struct{ name string }

type StubInc struct{}
type StubSet struct{}

var PurchaseCompletions = StubCounterVec{name: "purchase_completions_total"}
var PurchaseReplays = StubCounterVec{name: "purchase_replays_total"}
var PurchaseRejected = StubCounterVec{name: "purchase_rejected_total"}
var RewardGrants = StubCounterVec{name: "reward_grants_total"}
var RewardDuplicates = StubCounterVec{name: "reward_duplicates_total"}

func (s StubCounterVec) WithLabelValues(values ...string) StubInc {
	log.Printf("METRIC %s: %v", s.name, values)
	return StubInc{}
}

func (s StubGaugeVec) WithLabelValues(values ...string) StubSet {
	log.Printf("METRIC %s set: %v", s.name, values)
	return StubSet{}
}

func (s StubInc) Inc() {}

func (s StubSet) Set(v float64) {}
