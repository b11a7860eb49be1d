package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Taboada40/PinoyHiratage/internal/checkout"
	"github.com/Taboada40/PinoyHiratage/internal/localcart"
	"github.com/Taboada40/PinoyHiratage/internal/models"
)

// wizard pairs a checkout form with the lock that serializes handler access
// to it. The form itself is not safe for concurrent use; handlers hold the
// wizard lock for the whole of their work on the form.
type wizard struct {
	mu   sync.Mutex
	form *checkout.Form
}

// wizardFor returns the actor scope's checkout wizard, creating it on first
// use.
func (a *App) wizardFor(actor models.Actor) *wizard {
	scope := localcart.ScopeKeyFor(actor)

	a.mu.Lock()
	defer a.mu.Unlock()
	wz, ok := a.wizards[scope]
	if !ok {
		wz = &wizard{form: checkout.NewForm()}
		a.wizards[scope] = wz
	}
	return wz
}

// dropForm discards the actor scope's wizard state.
func (a *App) dropForm(scope string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.wizards, scope)
}

type checkoutState struct {
	Stage       checkout.Stage    `json:"stage"`
	Address     checkout.Address  `json:"address"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Discount    bool              `json:"discountApplied"`
	Subtotal    float64           `json:"subtotal"`
	DiscountAmt float64           `json:"discount"`
	Shipping    float64           `json:"shipping"`
	Total       float64           `json:"total"`
	CartError   string            `json:"cartError,omitempty"`
}

func (a *App) checkoutState(r *http.Request, actor models.Actor, form *checkout.Form) checkoutState {
	state := checkoutState{
		Stage:       form.Stage(),
		Address:     form.Address(),
		FieldErrors: form.FieldErrors(),
		Discount:    form.DiscountApplied(),
	}

	cart, err := a.cartService.Items(r.Context(), actor)
	if err == nil {
		state.Subtotal, state.DiscountAmt, state.Shipping, state.Total = form.Totals(cart.Items)
		state.CartError = cart.Error
	}
	return state
}

// GetCheckoutHandler handles GET /api/v1/checkout
func (a *App) GetCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// SetCheckoutFieldHandler handles POST /api/v1/checkout/field
func (a *App) SetCheckoutFieldHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	wz.form.SetField(req.Name, req.Value)
	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// ProceedToPaymentHandler handles POST /api/v1/checkout/proceed
func (a *App) ProceedToPaymentHandler(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)

	cart, err := a.cartService.Items(r.Context(), actor)
	if err == nil && len(cart.Items) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Your cart is empty"})
		return
	}

	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	if !wz.form.ProceedToPayment() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"stage":       wz.form.Stage(),
			"fieldErrors": wz.form.FieldErrors(),
		})
		return
	}
	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// ApplyDiscountHandler handles POST /api/v1/checkout/discount
func (a *App) ApplyDiscountHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	if !wz.form.ApplyDiscount(req.Code) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"applied": false,
			"message": "Invalid discount code",
		})
		return
	}
	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// RemoveDiscountHandler handles DELETE /api/v1/checkout/discount
func (a *App) RemoveDiscountHandler(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	wz.form.RemoveDiscount()
	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// SetPaymentHandler handles POST /api/v1/checkout/payment
func (a *App) SetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var details checkout.PaymentDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	wz.form.SetPayment(details)

	if ok, msg := wz.form.ValidatePayment(); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}
	writeJSON(w, http.StatusOK, a.checkoutState(r, actor, wz.form))
}

// ConfirmPaymentHandler handles POST /api/v1/checkout/confirm
func (a *App) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	actor := a.actor(r)
	wz := a.wizardFor(actor)
	wz.mu.Lock()
	defer wz.mu.Unlock()

	ok, msg := wz.form.ValidatePayment()
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": msg})
		return
	}

	order, err := a.orderService.PlaceFromCart(r.Context(), actor, wz.form.Payment().Method)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Checkout is complete; the next visit starts a fresh wizard.
	a.dropForm(localcart.ScopeKeyFor(actor))

	resp := map[string]interface{}{"status": "confirmed"}
	if order != nil {
		resp["order"] = order
	}
	writeJSON(w, http.StatusCreated, resp)
}

// LocationsHandler handles GET /api/v1/checkout/locations
func (a *App) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	if province := r.URL.Query().Get("province"); province != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"cities": checkout.CitiesFor(province)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"provinces": checkout.Provinces()})
}
