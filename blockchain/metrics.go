package blockchain

import "github.com/prometheus/client_golang/prometheus"

var pushBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}

// PushProcessingTime observes the wall-clock cost of one Push call.
var PushProcessingTime = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "albacore_push_processing_time_seconds",
	Help:    "Time taken to process one blockchain.Push call",
	Buckets: pushBuckets,
})

// PushOutcomes counts Push results by outcome/error kind.
var PushOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "albacore_push_outcomes_total",
	Help: "Total Push results by outcome (Extended/Forked/Rebranched/Ignored/Err)",
}, []string{"outcome"})

// InherentPlanningTime observes batch-finalization latency.
var InherentPlanningTime = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "albacore_inherent_planning_time_seconds",
	Help:    "Time taken to finalize a batch's reward/slash inherents",
	Buckets: pushBuckets,
})

// RewardPotPerBatch observes the total reward pot (block reward + tx
// fees) computed for each finalized batch.
var RewardPotPerBatch = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name: "albacore_reward_pot_per_batch_lunas",
	Help: "Reward pot (lunas) computed per finalized batch",
})

// BurnedRewardPerBatch observes the reward paid to the burn address per
// finalized batch: slashed slots' share, rewards refused by the
// Accounts acceptance probe, and a remainder with no accepted recipient.
var BurnedRewardPerBatch = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name: "albacore_burned_reward_per_batch_lunas",
	Help: "Reward (lunas) paid to the burn address, per finalized batch",
})

func init() {
	prometheus.MustRegister(PushProcessingTime, PushOutcomes, InherentPlanningTime, RewardPotPerBatch, BurnedRewardPerBatch)
}
