package reservation

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled  = errors.New("reservation is already cancelled")
	ErrInvalidWindow     = errors.New("dropoff_datetime must be after pickup_datetime")
	ErrNonPositiveAmount = errors.New("total_amount must be greater than zero")
)

// Addon is one add-on line item carried with the reservation snapshot.
type Addon struct {
	AddonCode    string
	Name         string
	Category     string
	Quantity     int
	UnitPrice    Money
	TotalPrice   Money
	CurrencyCode string
}

// StatusChange is one append-only history entry.
type StatusChange struct {
	From      Status
	To        Status
	ChangedAt time.Time
}

// ProviderRequest is an immutable record of one external response.
type ProviderRequest struct {
	ReservationCode Code
	ProviderCode    string
	RequestType     RequestType
	RequestPayload  Snapshot
	ResponsePayload Snapshot
	Status          RequestStatus
	CreatedAt       time.Time
	RespondedAt     time.Time
}

// Reservation is the aggregate root. It owns its status history and add-ons;
// provider requests reference it by code, never by pointer.
type Reservation struct {
	id                int64
	code              Code
	supplierCode      string
	pickupOfficeCode  string
	dropoffOfficeCode string
	pickupAt          time.Time
	dropoffAt         time.Time
	totalAmount       Money
	customer          Snapshot
	vehicle           Snapshot
	status            Status
	createdAt         time.Time
	addons            []Addon
	history           []StatusChange
}

func New(
	code Code,
	supplierCode, pickupOfficeCode, dropoffOfficeCode string,
	pickupAt, dropoffAt time.Time,
	totalAmount Money,
	customer, vehicle Snapshot,
	addons []Addon,
	now time.Time,
) (*Reservation, error) {
	if !dropoffAt.After(pickupAt) {
		return nil, ErrInvalidWindow
	}
	if !totalAmount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	return &Reservation{
		code:              code,
		supplierCode:      supplierCode,
		pickupOfficeCode:  pickupOfficeCode,
		dropoffOfficeCode: dropoffOfficeCode,
		pickupAt:          pickupAt,
		dropoffAt:         dropoffAt,
		totalAmount:       totalAmount,
		customer:          customer.Copy(),
		vehicle:           vehicle.Copy(),
		status:            StatusCreated,
		createdAt:         now.UTC(),
		addons:            append([]Addon(nil), addons...),
	}, nil
}

func Reconstruct(
	id int64,
	code Code,
	supplierCode, pickupOfficeCode, dropoffOfficeCode string,
	pickupAt, dropoffAt time.Time,
	totalAmount Money,
	customer, vehicle Snapshot,
	status Status,
	createdAt time.Time,
	addons []Addon,
	history []StatusChange,
) *Reservation {
	return &Reservation{
		id:                id,
		code:              code,
		supplierCode:      supplierCode,
		pickupOfficeCode:  pickupOfficeCode,
		dropoffOfficeCode: dropoffOfficeCode,
		pickupAt:          pickupAt,
		dropoffAt:         dropoffAt,
		totalAmount:       totalAmount,
		customer:          customer,
		vehicle:           vehicle,
		status:            status,
		createdAt:         createdAt,
		addons:            addons,
		history:           history,
	}
}

// allowedTransitions is the guarded lifecycle map. CREATED jumps straight to
// PAID when the reconciler sees a payment success before any in-progress mark.
var allowedTransitions = map[Status][]Status{
	StatusCreated:           {StatusPaymentInProgress, StatusPaid, StatusCancelled},
	StatusPaymentInProgress: {StatusPaid, StatusCancelled},
	StatusPaid:              {StatusSupplierConfirmed, StatusCancelled},
	StatusSupplierConfirmed: {StatusCancelled},
	StatusCancelled:         {},
}

func CanTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (r *Reservation) MarkPaymentInProgress(now time.Time) error {
	return r.transition(StatusPaymentInProgress, now)
}

func (r *Reservation) MarkPaid(now time.Time) error {
	return r.transition(StatusPaid, now)
}

func (r *Reservation) MarkSupplierConfirmed(now time.Time) error {
	return r.transition(StatusSupplierConfirmed, now)
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	return r.transition(StatusCancelled, now)
}

func (r *Reservation) CanBeCancelled() bool {
	return r.status != StatusCancelled
}

func (r *Reservation) transition(target Status, now time.Time) error {
	if !CanTransition(r.status, target) {
		return ErrInvalidTransition
	}
	previous := r.status
	r.status = target
	r.history = append(r.history, StatusChange{
		From:      previous,
		To:        target,
		ChangedAt: now.UTC(),
	})
	return nil
}

func (r *Reservation) ID() int64                 { return r.id }
func (r *Reservation) Code() Code                { return r.code }
func (r *Reservation) SupplierCode() string      { return r.supplierCode }
func (r *Reservation) PickupOfficeCode() string  { return r.pickupOfficeCode }
func (r *Reservation) DropoffOfficeCode() string { return r.dropoffOfficeCode }
func (r *Reservation) PickupAt() time.Time       { return r.pickupAt }
func (r *Reservation) DropoffAt() time.Time      { return r.dropoffAt }
func (r *Reservation) TotalAmount() Money        { return r.totalAmount }
func (r *Reservation) Customer() Snapshot        { return r.customer }
func (r *Reservation) Vehicle() Snapshot         { return r.vehicle }
func (r *Reservation) Status() Status            { return r.status }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) Addons() []Addon           { return r.addons }
func (r *Reservation) History() []StatusChange   { return r.history }
