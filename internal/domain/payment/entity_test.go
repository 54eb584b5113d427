//go:build unit

package payment_test

import (
	"context"
	"testing"
	"time"

	"parkhub/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("opens a pending record", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), 2000, now)
		require.NoError(t, err)

		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Equal(t, int64(2000), p.AmountCents())
		assert.Empty(t, p.TransactionRef())
		assert.Equal(t, now, p.CreatedAt())
		assert.Equal(t, now, p.UpdatedAt())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), -1, now)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, payment.ErrNegativeAmount)
	})
}

func TestPaymentFinalize(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("settles with the revised amount on success", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), 2000, now)
		require.NoError(t, err)

		require.NoError(t, p.Finalize(5000, payment.Result{Succeeded: true, TransactionRef: "sim_1"}, now.Add(time.Hour)))
		assert.Equal(t, payment.StatusPaid, p.Status())
		assert.Equal(t, int64(5000), p.AmountCents())
		assert.Equal(t, "sim_1", p.TransactionRef())
		assert.Equal(t, now, p.CreatedAt())
		assert.Equal(t, now.Add(time.Hour), p.UpdatedAt())
	})

	t.Run("records a declined charge", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), 2000, now)
		require.NoError(t, err)

		require.NoError(t, p.Finalize(2000, payment.Result{Succeeded: false, TransactionRef: "sim_2"}, now))
		assert.Equal(t, payment.StatusFailed, p.Status())
	})

	t.Run("rejects double finalize", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), 2000, now)
		require.NoError(t, err)
		require.NoError(t, p.Finalize(2000, payment.Result{Succeeded: true}, now))

		assert.ErrorIs(t, p.Finalize(2000, payment.Result{Succeeded: true}, now), payment.ErrAlreadyProcessed)
	})

	t.Run("rejects negative final amount", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), 2000, now)
		require.NoError(t, err)

		assert.ErrorIs(t, p.Finalize(-1, payment.Result{Succeeded: true}, now), payment.ErrNegativeAmount)
	})
}

func TestSimulatedProcessor(t *testing.T) {
	proc := payment.NewSimulatedProcessor()

	result, err := proc.Charge(context.Background(), uuid.NewString(), 2000)
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.NotEmpty(t, result.TransactionRef)

	again, err := proc.Charge(context.Background(), uuid.NewString(), 2000)
	require.NoError(t, err)
	assert.NotEqual(t, result.TransactionRef, again.TransactionRef)
}
