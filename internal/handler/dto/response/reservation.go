package response

import (
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/usecase/queries"
)

type ReservationResponse struct {
	ReservationCode string    `json:"reservation_code"`
	Status          string    `json:"status"`
	SupplierCode    string    `json:"supplier_code"`
	PickupDatetime  time.Time `json:"pickup_datetime"`
	DropoffDatetime time.Time `json:"dropoff_datetime"`
	TotalAmount     string    `json:"total_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromReservation(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationCode: r.Code().Value(),
		Status:          r.Status().String(),
		SupplierCode:    r.SupplierCode(),
		PickupDatetime:  r.PickupAt(),
		DropoffDatetime: r.DropoffAt(),
		TotalAmount:     r.TotalAmount().String(),
		CreatedAt:       r.CreatedAt(),
	}
}

type StatusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type AddonResponse struct {
	AddonCode    string `json:"addon_code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
	CurrencyCode string `json:"currency_code"`
}

type ReservationDetailResponse struct {
	ReservationCode   string                 `json:"reservation_code"`
	Status            string                 `json:"status"`
	SupplierCode      string                 `json:"supplier_code"`
	PickupOfficeCode  string                 `json:"pickup_office_code"`
	DropoffOfficeCode string                 `json:"dropoff_office_code"`
	PickupDatetime    time.Time              `json:"pickup_datetime"`
	DropoffDatetime   time.Time              `json:"dropoff_datetime"`
	TotalAmount       string                 `json:"total_amount"`
	CreatedAt         time.Time              `json:"created_at"`
	Addons            []AddonResponse        `json:"addons"`
	StatusHistory     []StatusChangeResponse `json:"status_history"`
}

func FromReservationView(v *queries.ReservationView) ReservationDetailResponse {
	addons := make([]AddonResponse, 0, len(v.Addons))
	for _, a := range v.Addons {
		addons = append(addons, AddonResponse{
			AddonCode:    a.AddonCode,
			Name:         a.Name,
			Category:     a.Category,
			Quantity:     a.Quantity,
			UnitPrice:    a.UnitPrice,
			TotalPrice:   a.TotalPrice,
			CurrencyCode: a.CurrencyCode,
		})
	}

	history := make([]StatusChangeResponse, 0, len(v.StatusHistory))
	for _, h := range v.StatusHistory {
		history = append(history, StatusChangeResponse{
			From:      h.From,
			To:        h.To,
			ChangedAt: h.ChangedAt,
		})
	}

	return ReservationDetailResponse{
		ReservationCode:   v.ReservationCode,
		Status:            v.Status,
		SupplierCode:      v.SupplierCode,
		PickupOfficeCode:  v.PickupOfficeCode,
		DropoffOfficeCode: v.DropoffOfficeCode,
		PickupDatetime:    v.PickupDatetime,
		DropoffDatetime:   v.DropoffDatetime,
		TotalAmount:       v.TotalAmount,
		CreatedAt:         v.CreatedAt,
		Addons:            addons,
		StatusHistory:     history,
	}
}
