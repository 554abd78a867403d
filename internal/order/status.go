package order

import (
	"fmt"
	"time"

	"github.com/talkincode/voltdesk/internal/domain"
)

// PhoneRevealDelay is how long after departure confirmation the customer
// phone stays hidden from the executor.
const PhoneRevealDelay = 20 * time.Minute

// statusRank orders statuses along the chain pending → confirmed →
// on-the-way → arrived → in-progress → completed. Cancelled is handled
// separately: reachable from any non-terminal status.
var statusRank = map[string]int{
	domain.OrderStatusPending:    0,
	domain.OrderStatusConfirmed:  1,
	domain.OrderStatusOnTheWay:   2,
	domain.OrderStatusArrived:    3,
	domain.OrderStatusInProgress: 4,
	domain.OrderStatusCompleted:  5,
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves along the chain are allowed, including skipping
// intermediate steps; backward moves and leaving a terminal status are not.
func CanTransition(from, to string) bool {
	if from == domain.OrderStatusCompleted || from == domain.OrderStatusCancelled {
		return false
	}
	if to == domain.OrderStatusCancelled {
		return true
	}
	fromRank, ok1 := statusRank[from]
	toRank, ok2 := statusRank[to]
	if !ok1 || !ok2 {
		return false
	}
	return toRank > fromRank
}

// statusMessages are the canned per-status notification texts.
var statusMessages = map[string]string{
	domain.OrderStatusPending:    "ожидает подтверждения",
	domain.OrderStatusConfirmed:  "подтверждена и принята в работу",
	domain.OrderStatusOnTheWay:   "мастер выехал к вам",
	domain.OrderStatusArrived:    "мастер прибыл на место",
	domain.OrderStatusInProgress: "начата, мастер приступил к работе",
	domain.OrderStatusCompleted:  "завершена",
	domain.OrderStatusCancelled:  "отменена",
}

// StatusMessage builds the customer-facing text for a status change.
func StatusMessage(uid, status string) string {
	msg, ok := statusMessages[status]
	if !ok {
		msg = "обновлена"
	}
	return fmt.Sprintf("Заявка #%s %s", shortUID(uid), msg)
}

func shortUID(uid string) string {
	if len(uid) <= 6 {
		return uid
	}
	return uid[len(uid)-6:]
}

// CanRevealPhone reports whether the executor may see the customer phone:
// departure must be confirmed and the reveal delay elapsed.
func CanRevealPhone(o *domain.Order, now time.Time) bool {
	return CanRevealPhoneAfter(o, now, PhoneRevealDelay)
}

// CanRevealPhoneAfter is CanRevealPhone with a configurable delay.
func CanRevealPhoneAfter(o *domain.Order, now time.Time, delay time.Duration) bool {
	if o.DepartureConfirmedAt == nil {
		return false
	}
	return now.Sub(*o.DepartureConfirmedAt) >= delay
}
