package payments

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

const refPrefix = "SIM-"

// Simulated implements ports.PaymentGateway without moving real money.
// It validates the request the way a provider would and returns a
// SIM-prefixed reference.
type Simulated struct {
	// MaxAmount rejects charges above it; zero means no limit.
	MaxAmount float64
}

// Charge validates the payout and returns a new SIM- reference. Nothing is
// sent anywhere.
func (g *Simulated) Charge(ctx context.Context, payeeEmail string, amount float64, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch {
	case payeeEmail == "":
		return "", fmt.Errorf("charge: missing payee")
	case amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0):
		return "", fmt.Errorf("charge: invalid amount %v", amount)
	case len(currency) != 3:
		return "", fmt.Errorf("charge: invalid currency %q", currency)
	case g.MaxAmount > 0 && amount > g.MaxAmount:
		return "", fmt.Errorf("charge: amount %.2f exceeds limit %.2f", amount, g.MaxAmount)
	}
	return refPrefix + uuid.NewString(), nil
}

// Refund accepts any reference this gateway issued.
func (g *Simulated) Refund(ctx context.Context, providerRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(providerRef, refPrefix) || len(providerRef) == len(refPrefix) {
		return fmt.Errorf("refund: unknown reference %q", providerRef)
	}
	return nil
}
