package payments

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_Charge(t *testing.T) {
	g := &Simulated{MaxAmount: 1000}

	ref, err := g.Charge(context.Background(), "worker@example.com", 80, "CAD")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "SIM-"))

	other, err := g.Charge(context.Background(), "worker@example.com", 80, "CAD")
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestSimulated_Charge_Rejects(t *testing.T) {
	g := &Simulated{MaxAmount: 1000}
	tests := map[string]struct {
		payee    string
		amount   float64
		currency string
	}{
		"no payee":     {"", 10, "CAD"},
		"zero":         {"w@example.com", 0, "CAD"},
		"nan":          {"w@example.com", math.NaN(), "CAD"},
		"bad currency": {"w@example.com", 10, "dollars"},
		"over limit":   {"w@example.com", 1000.01, "CAD"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := g.Charge(context.Background(), tt.payee, tt.amount, tt.currency)
			assert.Error(t, err)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Charge(ctx, "w@example.com", 10, "CAD")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulated_Refund(t *testing.T) {
	g := &Simulated{}
	ref, err := g.Charge(context.Background(), "worker@example.com", 80, "CAD")
	require.NoError(t, err)
	assert.NoError(t, g.Refund(context.Background(), ref))

	assert.Error(t, g.Refund(context.Background(), ""))
	assert.Error(t, g.Refund(context.Background(), "SIM-"))
	assert.Error(t, g.Refund(context.Background(), "PAYPAL-123"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Refund(ctx, ref), context.Canceled)
}
