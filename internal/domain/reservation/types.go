package reservation

type Status string

const (
	StatusCreated           Status = "CREATED"
	StatusPaymentInProgress Status = "PAYMENT_IN_PROGRESS"
	StatusPaid              Status = "PAID"
	StatusSupplierConfirmed Status = "SUPPLIER_CONFIRMED"
	StatusCancelled         Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusPaymentInProgress, StatusPaid, StatusSupplierConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// RequestType labels one leg of the external flow.
type RequestType string

const (
	RequestTypePayment RequestType = "PAYMENT"
	RequestTypeBooking RequestType = "BOOKING"
)

func (t RequestType) IsValid() bool {
	return t == RequestTypePayment || t == RequestTypeBooking
}

// RequestStatus is the terminal state of one recorded provider response.
type RequestStatus string

const (
	RequestStatusSuccess RequestStatus = "SUCCESS"
	RequestStatusFailed  RequestStatus = "FAILED"
)
