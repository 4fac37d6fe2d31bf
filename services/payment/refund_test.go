package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPenceRoundsInsteadOfTruncating(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{64.07, 6407}, // 64.07 * 100 == 6406.999... in float64
		{0.29, 29},
		{0.01, 1},
		{100, 10000},
		{75.50, 7550},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pence(tc.amount), "amount %.2f", tc.amount)
	}
}
