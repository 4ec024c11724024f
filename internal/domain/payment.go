package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PaymentKind discriminates the payment variants.
type PaymentKind string

const (
	PaymentCash            PaymentKind = "cash"
	PaymentCard            PaymentKind = "card"
	PaymentInstantTransfer PaymentKind = "instant_transfer"
)

// PaymentMethod settles a monetary amount. A method settles at most once:
// calling Settle on an already-settled method fails with ErrAlreadySettled.
type PaymentMethod interface {
	Kind() PaymentKind
	Settle(due float64) error
	Settled() bool
	Label() string
}

// CashPayment settles when the tendered amount covers the due amount and
// computes change as a derived value.
type CashPayment struct {
	Tendered float64

	change  float64
	settled bool
}

func NewCashPayment(tendered float64) *CashPayment {
	return &CashPayment{Tendered: tendered}
}

func (p *CashPayment) Kind() PaymentKind { return PaymentCash }

func (p *CashPayment) Settle(due float64) error {
	if p.settled {
		return ErrAlreadySettled
	}
	if p.Tendered < due {
		return fmt.Errorf("%w: tendered %.2f is less than due %.2f", ErrPaymentRejected, p.Tendered, due)
	}
	p.change = p.Tendered - due
	p.settled = true
	return nil
}

func (p *CashPayment) Settled() bool { return p.settled }

// Change is only meaningful after a successful Settle.
func (p *CashPayment) Change() float64 { return p.change }

func (p *CashPayment) Label() string {
	return fmt.Sprintf("cash (%.2f tendered)", p.Tendered)
}

var (
	nonDigits     = regexp.MustCompile(`\D`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// rejectedCVV always causes the simulated issuer to decline. Kept as a
// deterministic demo hook; a real deployment swaps the authorizer for a
// gateway call.
const rejectedCVV = "000"

// CardAuthorizer is the issuer decision point for card settlement.
type CardAuthorizer func(card *CardPayment, due float64) error

// CardPayment validates its fields at construction time: fields that fail
// validation are stored empty and make every Settle fail deterministically.
type CardPayment struct {
	Holder string

	number string
	cvv    string
	expiry string

	authorize CardAuthorizer
	settled   bool
}

func NewCardPayment(number, holder, cvv, expiry string) *CardPayment {
	p := &CardPayment{Holder: strings.TrimSpace(holder)}

	digits := nonDigits.ReplaceAllString(number, "")
	if len(digits) == 16 {
		p.number = digits
	}
	if cvvPattern.MatchString(cvv) {
		p.cvv = cvv
	}
	if expiryPattern.MatchString(expiry) {
		p.expiry = expiry
	}
	p.authorize = simulatedIssuer
	return p
}

// SetAuthorizer replaces the issuer decision, e.g. with a gateway client or
// a test stub.
func (p *CardPayment) SetAuthorizer(a CardAuthorizer) {
	if a != nil {
		p.authorize = a
	}
}

func simulatedIssuer(card *CardPayment, due float64) error {
	if card.cvv == rejectedCVV {
		return fmt.Errorf("%w: declined by issuer", ErrPaymentRejected)
	}
	return nil
}

func (p *CardPayment) Kind() PaymentKind { return PaymentCard }

func (p *CardPayment) Settle(due float64) error {
	if p.settled {
		return ErrAlreadySettled
	}
	if p.number == "" || p.cvv == "" || p.expiry == "" || p.Holder == "" {
		return fmt.Errorf("%w: card details are invalid", ErrPaymentRejected)
	}
	if err := p.authorize(p, due); err != nil {
		return err
	}
	p.settled = true
	return nil
}

func (p *CardPayment) Settled() bool { return p.settled }

// MaskedNumber hides all but the last four digits.
func (p *CardPayment) MaskedNumber() string {
	if len(p.number) != 16 {
		return ""
	}
	return "**** **** **** " + p.number[12:]
}

func (p *CardPayment) Label() string {
	return "card " + p.MaskedNumber()
}

// transferLatency bounds the simulated processing delay so settlement never
// blocks the caller for long.
const transferLatency = 50 * time.Millisecond

// InstantTransferPayment always settles after a short simulated delay.
type InstantTransferPayment struct {
	Key string

	settled bool
}

func NewInstantTransferPayment(key string) *InstantTransferPayment {
	return &InstantTransferPayment{Key: strings.TrimSpace(key)}
}

func (p *InstantTransferPayment) Kind() PaymentKind { return PaymentInstantTransfer }

func (p *InstantTransferPayment) Settle(due float64) error {
	if p.settled {
		return ErrAlreadySettled
	}
	time.Sleep(transferLatency)
	p.settled = true
	return nil
}

func (p *InstantTransferPayment) Settled() bool { return p.settled }

// MaskedKey shows only the edges of the transfer key for display.
func (p *InstantTransferPayment) MaskedKey() string {
	if len(p.Key) <= 4 {
		return strings.Repeat("*", len(p.Key))
	}
	return p.Key[:2] + strings.Repeat("*", len(p.Key)-4) + p.Key[len(p.Key)-2:]
}

func (p *InstantTransferPayment) Label() string {
	return "instant transfer " + p.MaskedKey()
}
