package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"$12,500.00", "12500.00", true},
		{"(1,234.50)", "-1234.50", true},
		{"9999.99", "9999.99", true},
		{"10000.01", "10000.01", true},
		{"-500", "-500", true},
		{"USD 1,200", "1200", true},
		{"us$75", "75", true},
		{"$ -42.10", "-42.10", true},
		{"Rent", "", false},
		{"", "", false},
		{"2024-01-15", "", false},
		{"1.234,50", "", false},
		{"12%", "", false},
		{"1e5", "", false},
		{"€300", "", false},
		{"(1", "", false},
		{"250.00)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestScanLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"currency total", "Total: $12,500.00", []string{"12500.00"}},
		{"date is not money", "Paid on 01/15/2024 amount 500.00", []string{"500.00"}},
		{"account number", "Account 123456789012 balance $40", []string{"40"}},
		{"percentage", "Rate 7.5% on 2,000", []string{"2000"}},
		{"clock time", "Meeting at 12:30", nil},
		{"parenthesised negative", "Refund (1,234.50)", []string{"-1234.50"}},
		{"invoice id", "INV-00123", nil},
		{"european separators", "Total 1.234,50", nil},
		{"two amounts", "Subtotal $90.00 Tax $9.00", []string{"90.00", "9.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ScanLine(tt.line)
			require.Len(t, matches, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, decimal.RequireFromString(w).Equal(matches[i].Value), "match %d: got %s", i, matches[i].Value)
				assert.Equal(t, tt.line, matches[i].Line)
			}
		})
	}
}

func TestScanLineKeepsRawToken(t *testing.T) {
	matches := ScanLine("Refund (1,234.50) issued")
	require.Len(t, matches, 1)
	assert.Equal(t, "(1,234.50)", matches[0].Raw)
}

func TestScanAmountsLineNumbers(t *testing.T) {
	text := "Header\n\n  Total: $12,500.00  \r\nTax $300\fNo numbers here"

	matches := ScanAmounts(text)
	require.Len(t, matches, 2)

	assert.Equal(t, 3, matches[0].LineNo)
	assert.Equal(t, "Total: $12,500.00", matches[0].Line)
	assert.Equal(t, "$12,500.00", matches[0].Raw)

	assert.Equal(t, 4, matches[1].LineNo)
	assert.True(t, decimal.NewFromInt(300).Equal(matches[1].Value))
}

func TestScanAmountsEmpty(t *testing.T) {
	assert.Empty(t, ScanAmounts(""))
	assert.Empty(t, ScanAmounts("thank you for shopping"))
}
