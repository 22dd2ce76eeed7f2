package service

import (
	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/shopspring/decimal"
)

// FlaggingEngine marks amounts strictly greater than the threshold.
type FlaggingEngine struct {
	threshold decimal.Decimal
}

func NewFlaggingEngine(threshold decimal.Decimal) *FlaggingEngine {
	return &FlaggingEngine{threshold: threshold}
}

func (f *FlaggingEngine) Threshold() decimal.Decimal { return f.threshold }

func (f *FlaggingEngine) Flag(amount dto.ExtractedAmount) dto.FlaggedResult {
	return dto.FlaggedResult{
		Amount:    amount,
		Flagged:   amount.Value.GreaterThan(f.threshold),
		Threshold: f.threshold,
	}
}

// FlagAll returns one result per amount, in input order.
func (f *FlaggingEngine) FlagAll(amounts []dto.ExtractedAmount) []dto.FlaggedResult {
	results := make([]dto.FlaggedResult, len(amounts))
	for i, a := range amounts {
		results[i] = f.Flag(a)
	}
	return results
}
