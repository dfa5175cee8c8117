package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func pendingOrder() *Order {
	return &Order{ID: 1, Reference: "ORD-20260301-ABCDEF12", Status: StatusPending}
}

func TestTransition_PaymentGuard(t *testing.T) {
	for _, target := range []Status{StatusOrderPlaced, StatusPacked, StatusInTransit, StatusDelivered, StatusCompleted} {
		t.Run(string(target), func(t *testing.T) {
			o := pendingOrder()

			_, err := Transition(o, target, t0)
			var payErr *PaymentRequiredError
			require.ErrorAs(t, err, &payErr)
			assert.Equal(t, target, payErr.Status)

			// Rejected transition leaves the order untouched.
			assert.Equal(t, StatusPending, o.Status)
			assert.False(t, o.Packed)
			assert.Nil(t, o.PackedDate)
		})
	}
}

func TestTransition_CancelledNeedsNoPayment(t *testing.T) {
	o := pendingOrder()

	res, err := Transition(o, StatusCancelled, t0)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, StatusCancelled, o.Status)
}

func TestTransition_GuardRecheckedOnEverySave(t *testing.T) {
	o := pendingOrder()
	MarkPaid(o, t0)

	_, err := Transition(o, StatusPacked, t0)
	require.NoError(t, err)

	// Payment flag somehow reverted; the next save must re-reject.
	o.PaymentMade = false
	_, err = Transition(o, StatusInTransit, t0.Add(time.Hour))
	var payErr *PaymentRequiredError
	require.ErrorAs(t, err, &payErr)
}

func TestTransition_MilestonesSetOnce(t *testing.T) {
	o := pendingOrder()
	MarkPaid(o, t0)

	res, err := Transition(o, StatusPacked, t0)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.NotNil(t, o.PackedDate)
	first := *o.PackedDate

	// Re-saving the same status is unchanged and must not move the date.
	later := t0.Add(2 * time.Hour)
	res, err = Transition(o, StatusPacked, later)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, first, *o.PackedDate)
}

func TestTransition_AllMilestones(t *testing.T) {
	o := pendingOrder()
	MarkPaid(o, t0)

	_, err := Transition(o, StatusPacked, t0)
	require.NoError(t, err)
	_, err = Transition(o, StatusInTransit, t0.Add(time.Hour))
	require.NoError(t, err)
	_, err = Transition(o, StatusDelivered, t0.Add(2*time.Hour))
	require.NoError(t, err)

	assert.True(t, o.Packed)
	assert.True(t, o.InTransit)
	assert.True(t, o.Delivered)
	assert.Equal(t, t0, *o.PackedDate)
	assert.Equal(t, t0.Add(time.Hour), *o.InTransitDate)
	assert.Equal(t, t0.Add(2*time.Hour), *o.DeliveredDate)
}

func TestTransition_TerminalStatusRejectsFurtherMoves(t *testing.T) {
	o := pendingOrder()
	MarkPaid(o, t0)
	_, err := Transition(o, StatusDelivered, t0)
	require.NoError(t, err)

	_, err = Transition(o, StatusPacked, t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrTerminalStatus)

	// Re-saving the terminal status itself stays legal and unchanged.
	res, err := Transition(o, StatusDelivered, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestTransition_UnknownStatus(t *testing.T) {
	o := pendingOrder()

	_, err := Transition(o, Status("Lost"), t0)
	var unknownErr *UnknownStatusError
	require.ErrorAs(t, err, &unknownErr)
}

func TestMarkPaid_SetsDateOnFirstFlipOnly(t *testing.T) {
	o := pendingOrder()

	require.True(t, MarkPaid(o, t0))
	require.NotNil(t, o.PaymentDate)
	assert.Equal(t, t0, *o.PaymentDate)

	assert.False(t, MarkPaid(o, t0.Add(time.Hour)))
	assert.Equal(t, t0, *o.PaymentDate)
}

func TestSumItems_OrderSemantics(t *testing.T) {
	items := []OrderItem{
		{Price: decimal.RequireFromString("10.00"), Quantity: 2, Discount: decimal.RequireFromString("2.00"), Total: decimal.RequireFromString("18.00")},
		{Price: decimal.RequireFromString("5.00"), Quantity: 1, Discount: decimal.RequireFromString("0.00"), Total: decimal.RequireFromString("5.00")},
	}

	totalPrice, totalDiscount := SumItems(items)

	// Order total_price sums post-discount line totals.
	assert.True(t, totalPrice.Equal(decimal.RequireFromString("23.00")), "got %s", totalPrice)
	assert.True(t, totalDiscount.Equal(decimal.RequireFromString("2.00")), "got %s", totalDiscount)
}

func TestSumItems_Empty(t *testing.T) {
	totalPrice, totalDiscount := SumItems(nil)
	assert.True(t, totalPrice.IsZero())
	assert.True(t, totalDiscount.IsZero())
}
