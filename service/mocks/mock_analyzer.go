package mocks

import (
	"context"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, doc dto.Document) *dto.AnalysisResponse {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, dto.Document) *dto.AnalysisResponse); ok {
		return f(ctx, doc)
	}
	return args.Get(0).(*dto.AnalysisResponse)
}

func (m *MockAnalyzer) Threshold() decimal.Decimal {
	args := m.Called()
	return args.Get(0).(decimal.Decimal)
}
