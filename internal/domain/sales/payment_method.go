package sales

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// PaymentMethod is the tender used for a sale
type PaymentMethod string

// Default payment methods
const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentMpesa PaymentMethod = "Mpesa"
	PaymentCard  PaymentMethod = "Card"
)

// String returns the method's display name
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentMethods is the configured set of accepted payment methods
type PaymentMethods struct {
	methods []PaymentMethod
}

// DefaultPaymentMethods returns Cash, Mpesa and Card
func DefaultPaymentMethods() PaymentMethods {
	return PaymentMethods{methods: []PaymentMethod{PaymentCash, PaymentMpesa, PaymentCard}}
}

// NewPaymentMethods builds the accepted set from configured names. Blank and
// duplicate names are skipped; an empty list falls back to the defaults.
func NewPaymentMethods(names []string) PaymentMethods {
	seen := make(map[string]struct{}, len(names))
	methods := make([]PaymentMethod, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		methods = append(methods, PaymentMethod(name))
	}
	if len(methods) == 0 {
		return DefaultPaymentMethods()
	}
	return PaymentMethods{methods: methods}
}

// All returns the accepted methods in configured order
func (p PaymentMethods) All() []PaymentMethod {
	out := make([]PaymentMethod, len(p.methods))
	copy(out, p.methods)
	return out
}

// Resolve matches name case-insensitively and returns the configured spelling
func (p PaymentMethods) Resolve(name string) (PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Payment method is required")
	}
	for _, m := range p.methods {
		if strings.EqualFold(string(m), name) {
			return m, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeInvalidInput, "Unsupported payment method: "+name)
}
