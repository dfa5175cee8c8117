// internal/domain/order/lifecycle.go
package order

import (
	"errors"
	"fmt"
	"time"
)

// ErrTerminalStatus is returned when a transition is attempted out of a
// terminal status (Delivered, Completed).
var ErrTerminalStatus = errors.New("order is in a terminal status")

// PaymentRequiredError indicates a status transition was attempted before
// payment was recorded.
type PaymentRequiredError struct {
	Status Status
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("payment must be made before setting the order status to %q", e.Status)
}

// UnknownStatusError indicates a status value outside the modeled set.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown order status %q", e.Status)
}

// TransitionResult reports whether a save actually changed the persisted
// status. Unchanged saves must not trigger notifications.
type TransitionResult struct {
	Changed bool
	From    Status
	To      Status
}

var knownStatuses = map[Status]bool{
	StatusPending:     true,
	StatusOrderPlaced: true,
	StatusPacked:      true,
	StatusInTransit:   true,
	StatusDelivered:   true,
	StatusCompleted:   true,
	StatusCancelled:   true,
}

// paymentGated lists the statuses an order may only enter once payment has
// been made. The guard is re-checked on every save, not only at creation.
var paymentGated = map[Status]bool{
	StatusOrderPlaced: true,
	StatusPacked:      true,
	StatusInTransit:   true,
	StatusDelivered:   true,
	StatusCompleted:   true,
}

// Transition applies a status change to the order against its previously
// persisted state. It enforces the payment guard, records milestone
// booleans and timestamps exactly once per milestone, and reports whether
// the status actually changed. The order is left untouched on error.
func Transition(o *Order, target Status, now time.Time) (TransitionResult, error) {
	if !knownStatuses[target] {
		return TransitionResult{}, &UnknownStatusError{Status: target}
	}
	if paymentGated[target] && !o.PaymentMade {
		return TransitionResult{}, &PaymentRequiredError{Status: target}
	}
	if o.IsTerminal() && target != o.Status {
		return TransitionResult{}, ErrTerminalStatus
	}

	result := TransitionResult{
		Changed: o.Status != target,
		From:    o.Status,
		To:      target,
	}
	o.Status = target

	switch target {
	case StatusPacked:
		if !o.Packed {
			o.Packed = true
			o.PackedDate = &now
		}
	case StatusInTransit:
		if !o.InTransit {
			o.InTransit = true
			o.InTransitDate = &now
		}
	case StatusDelivered:
		if !o.Delivered {
			o.Delivered = true
			o.DeliveredDate = &now
		}
	}

	return result, nil
}

// MarkPaid records payment on the order. The payment date is set only on the
// false→true flip; repeated calls are no-ops. Returns whether the flag
// flipped.
func MarkPaid(o *Order, now time.Time) bool {
	if o.PaymentMade {
		return false
	}
	o.PaymentMade = true
	if o.PaymentDate == nil {
		o.PaymentDate = &now
	}
	return true
}
