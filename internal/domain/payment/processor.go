package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Result is the gateway outcome for a single charge attempt.
type Result struct {
	Succeeded      bool
	TransactionRef string
}

// Processor charges the finalized amount at check-out. Implementations must
// not be called while database locks are held; the charge is recorded as part
// of the check-out transaction but simulated locally.
type Processor interface {
	Charge(ctx context.Context, reservationID string, amountCents int64) (Result, error)
}

// SimulatedProcessor stands in for a real payment gateway. It always
// approves; the Result shape keeps the failed path reachable for tests and
// for a future real integration.
type SimulatedProcessor struct{}

func NewSimulatedProcessor() *SimulatedProcessor {
	return &SimulatedProcessor{}
}

func (p *SimulatedProcessor) Charge(_ context.Context, _ string, _ int64) (Result, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Result{}, err
	}
	ref := fmt.Sprintf("sim_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf[:]))
	return Result{Succeeded: true, TransactionRef: ref}, nil
}
