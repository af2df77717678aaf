package stats

import "math"

// BatchStats summarizes a batch conversion run
type BatchStats struct {
	Total          int            `json:"total"`
	Converted      int            `json:"converted"`
	Failed         int            `json:"failed"`
	OperatorCounts map[string]int `json:"operatorCounts"`
	SuccessRate    float64        `json:"successRate"`
}

// NewBatchStats creates a new BatchStats instance with initialized maps
func NewBatchStats() *BatchStats {
	return &BatchStats{
		OperatorCounts: make(map[string]int),
	}
}

// AddConverted counts a successful conversion and the operators it emitted
func (bs *BatchStats) AddConverted(operators []string) {
	bs.Total++
	bs.Converted++
	for _, operator := range operators {
		bs.OperatorCounts[operator]++
	}
}

// AddFailed counts a conversion that returned an error
func (bs *BatchStats) AddFailed() {
	bs.Total++
	bs.Failed++
}

// Finalize calculates the success rate as a percentage with two decimals
func (bs *BatchStats) Finalize() {
	if bs.Total == 0 {
		bs.SuccessRate = 0
		return
	}
	rate := float64(bs.Converted) / float64(bs.Total) * 100
	bs.SuccessRate = math.Round(rate*100) / 100
}
