// Package checkout holds the two-step checkout wizard: delivery information
// gated by field-level validation, then payment. The wizard never talks to
// the network itself; order submission happens outside it.
package checkout

import (
	"regexp"
	"strings"

	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// Stage is a wizard step.
type Stage string

const (
	// StageDelivery collects and validates the delivery address.
	StageDelivery Stage = "DELIVERY_INFO"
	// StagePayment collects the payment method details.
	StagePayment Stage = "PAYMENT"
)

// Discount configuration. Application is a pure string-equality check;
// there is no remote validation.
const (
	DiscountCode = "SAVE10"
	discountRate = 0.10
)

// Supported payment methods (simulation only).
const (
	MethodCard  = "Credit/Debit Card"
	MethodGCash = "GCash"
	MethodBank  = "Bank Transfer"
)

// Philippine mobile numbers: 09 followed by nine digits.
var phonePattern = regexp.MustCompile(`^09\d{9}$`)

// Address is the delivery information collected in step one.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Province   string `json:"province"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentDetails is the method-specific data collected in step two.
type PaymentDetails struct {
	Method string `json:"method"`

	CardName   string `json:"cardName,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`

	GCashNumber string `json:"gcashNumber,omitempty"`
	GCashName   string `json:"gcashName,omitempty"`

	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
}

// Form is the wizard state for one checkout. It is not safe for concurrent
// use; callers serialize access per actor.
type Form struct {
	stage       Stage
	address     Address
	fieldErrors map[string]string

	discountApplied bool
	payment         PaymentDetails
}

// NewForm starts a checkout at the delivery step.
func NewForm() *Form {
	return &Form{
		stage:       StageDelivery,
		address:     Address{Country: "Philippines"},
		fieldErrors: make(map[string]string),
	}
}

// Stage returns the current wizard step.
func (f *Form) Stage() Stage {
	return f.stage
}

// Address returns the collected delivery information.
func (f *Form) Address() Address {
	return f.address
}

// FieldErrors returns the per-field validation messages from the last
// blocked transition.
func (f *Form) FieldErrors() map[string]string {
	errs := make(map[string]string, len(f.fieldErrors))
	for field, msg := range f.fieldErrors {
		errs[field] = msg
	}
	return errs
}

// SetField updates one delivery field. The field's error clears immediately
// on edit; other fields' errors stay until the next validation.
func (f *Form) SetField(name, value string) {
	switch name {
	case "fullName":
		f.address.FullName = value
	case "phone":
		f.address.Phone = value
	case "street":
		f.address.Street = value
	case "province":
		f.address.Province = value
	case "city":
		f.address.City = value
	case "postalCode":
		f.address.PostalCode = value
	case "country":
		f.address.Country = value
	default:
		return
	}
	delete(f.fieldErrors, name)
}

// validateDelivery computes per-field messages for the delivery step.
func (f *Form) validateDelivery() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.address.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if strings.TrimSpace(f.address.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(f.address.Phone) {
		errs["phone"] = "Invalid PH number (09XXXXXXXXX)"
	}
	if strings.TrimSpace(f.address.Street) == "" {
		errs["street"] = "Street address is required"
	}
	if f.address.Province == "" {
		errs["province"] = "Province is required"
	}
	if f.address.City == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.address.PostalCode) == "" {
		errs["postalCode"] = "Postal code is required"
	}

	return errs
}

// ProceedToPayment attempts the DELIVERY_INFO -> PAYMENT transition. On
// validation failure the transition is blocked, per-field messages are set
// and false is returned; there is no partial navigation.
func (f *Form) ProceedToPayment() bool {
	errs := f.validateDelivery()
	f.fieldErrors = errs
	if len(errs) > 0 {
		return false
	}
	f.stage = StagePayment
	return true
}

// ApplyDiscount applies the discount code. An invalid code clears the
// attempt and returns false.
func (f *Form) ApplyDiscount(code string) bool {
	if strings.EqualFold(strings.TrimSpace(code), DiscountCode) {
		f.discountApplied = true
		return true
	}
	return false
}

// RemoveDiscount clears any applied discount.
func (f *Form) RemoveDiscount() {
	f.discountApplied = false
}

// DiscountApplied reports whether the discount code is active.
func (f *Form) DiscountApplied() bool {
	return f.discountApplied
}

// SetPayment stores the method-specific payment details.
func (f *Form) SetPayment(details PaymentDetails) {
	f.payment = details
}

// Payment returns the collected payment details.
func (f *Form) Payment() PaymentDetails {
	return f.payment
}

// ValidatePayment checks the payment step. The message mirrors what the
// storefront shows the user; an empty message means the step is complete.
func (f *Form) ValidatePayment() (bool, string) {
	if f.stage != StagePayment {
		return false, "Complete delivery information first."
	}

	p := f.payment
	switch p.Method {
	case "":
		return false, "Please select a payment method."
	case MethodCard:
		if p.CardName == "" || p.CardNumber == "" || p.ExpiryDate == "" || p.CVV == "" {
			return false, "Please fill in all card details."
		}
		if len(strings.ReplaceAll(p.CardNumber, " ", "")) != 16 {
			return false, "Please enter a valid 16-digit card number."
		}
		if len(p.CVV) != 3 {
			return false, "Please enter a valid 3-digit CVV."
		}
	case MethodGCash:
		if p.GCashNumber == "" || p.GCashName == "" {
			return false, "Please fill in all GCash details."
		}
		if len(p.GCashNumber) != 11 {
			return false, "Please enter a valid 11-digit mobile number."
		}
	case MethodBank:
		if p.BankName == "" || p.AccountNumber == "" || p.AccountName == "" {
			return false, "Please fill in all bank transfer details."
		}
	default:
		return false, "Please select a payment method."
	}

	return true, ""
}

// Totals computes the order summary over the current cart view. Shipping
// is free; the discount is a flat percentage of the subtotal.
func (f *Form) Totals(items []models.CartLineItem) (subtotal, discount, shipping, total float64) {
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	if f.discountApplied {
		discount = subtotal * discountRate
	}
	shipping = 0
	total = subtotal - discount + shipping
	return subtotal, discount, shipping, total
}
