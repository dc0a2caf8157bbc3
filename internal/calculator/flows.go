package calculator

import "CryptoPulse/internal/model"

// SummarizeFlows aggregates an ETF flow history ordered most-recent-first:
// the latest daily net flow, the 7-day net, the day-over-day percentage
// change, and the total assets under management.
func SummarizeFlows(history []model.FlowPoint, totalAUM float64) model.FlowSummary {
	if len(history) == 0 {
		return model.FlowSummary{TotalAUM: totalAUM}
	}
	netFlow1D := history[0].FlowUSD
	var netFlow7D float64
	for i := 0; i < len(history) && i < 7; i++ {
		netFlow7D += history[i].FlowUSD
	}
	var changePct float64
	if len(history) > 1 {
		changePct = PctChange(netFlow1D, history[1].FlowUSD)
	}
	return model.FlowSummary{
		NetFlow1D: netFlow1D,
		NetFlow7D: netFlow7D,
		ChangePct: changePct,
		TotalAUM:  totalAUM,
	}
}
