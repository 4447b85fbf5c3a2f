package request

import (
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/usecase/commands"
)

type CreateAddonRequest struct {
	AddonCode    string `json:"addon_code" binding:"required"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice    string `json:"unit_price" binding:"required"`
	CurrencyCode string `json:"currency_code"`
}

type CreateReservationRequest struct {
	SupplierCode      string               `json:"supplier_code" binding:"required"`
	PickupOfficeCode  string               `json:"pickup_office_code" binding:"required"`
	DropoffOfficeCode string               `json:"dropoff_office_code" binding:"required"`
	PickupDatetime    time.Time            `json:"pickup_datetime" binding:"required"`
	DropoffDatetime   time.Time            `json:"dropoff_datetime" binding:"required"`
	TotalAmount       string               `json:"total_amount" binding:"required"`
	CustomerSnapshot  map[string]any       `json:"customer_snapshot" binding:"required"`
	VehicleSnapshot   map[string]any       `json:"vehicle_snapshot"`
	Addons            []CreateAddonRequest `json:"addons"`
}

func (r CreateReservationRequest) ToInput(actor string) (commands.CreateReservationInput, error) {
	amount, err := reservation.ParseMoney(r.TotalAmount)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}

	addons := make([]reservation.Addon, 0, len(r.Addons))
	for _, a := range r.Addons {
		unit, err := reservation.ParseMoney(a.UnitPrice)
		if err != nil {
			return commands.CreateReservationInput{}, err
		}
		currency := a.CurrencyCode
		if currency == "" {
			currency = "EUR"
		}
		addons = append(addons, reservation.Addon{
			AddonCode:    a.AddonCode,
			Name:         a.Name,
			Category:     a.Category,
			Quantity:     a.Quantity,
			UnitPrice:    unit,
			TotalPrice:   reservation.NewMoney(unit.Cents() * int64(a.Quantity)),
			CurrencyCode: currency,
		})
	}

	return commands.CreateReservationInput{
		SupplierCode:      r.SupplierCode,
		PickupOfficeCode:  r.PickupOfficeCode,
		DropoffOfficeCode: r.DropoffOfficeCode,
		PickupAt:          r.PickupDatetime,
		DropoffAt:         r.DropoffDatetime,
		TotalAmount:       amount,
		Customer:          reservation.Snapshot(r.CustomerSnapshot),
		Vehicle:           reservation.Snapshot(r.VehicleSnapshot),
		Addons:            addons,
		Actor:             actor,
	}, nil
}
