package checkout

// PaymentStatus is the upstream payment state for a checkout.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	// PaymentStatusExpired is reported locally when the polling budget
	// runs out before the upstream reaches a terminal state.
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed || s == PaymentStatusExpired
}

func (s PaymentStatus) String() string {
	return string(s)
}
