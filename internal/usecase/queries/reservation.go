package queries

import (
	"context"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/usecase/shared"
)

type StatusChangeView struct {
	From      string
	To        string
	ChangedAt time.Time
}

type AddonView struct {
	AddonCode    string
	Name         string
	Category     string
	Quantity     int
	UnitPrice    string
	TotalPrice   string
	CurrencyCode string
}

type ReservationView struct {
	ReservationCode   string
	Status            string
	SupplierCode      string
	PickupOfficeCode  string
	DropoffOfficeCode string
	PickupDatetime    time.Time
	DropoffDatetime   time.Time
	TotalAmount       string
	CreatedAt         time.Time
	Addons            []AddonView
	StatusHistory     []StatusChangeView
}

type ReservationQueries struct {
	repo shared.ReservationRepository
}

func NewReservationQueries(repo shared.ReservationRepository) *ReservationQueries {
	return &ReservationQueries{repo: repo}
}

func (q *ReservationQueries) GetByCode(ctx context.Context, rawCode string) (*ReservationView, error) {
	code, err := reservation.NewCode(rawCode)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	res, err := q.repo.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, err
	}

	addons := make([]AddonView, 0, len(res.Addons()))
	for _, a := range res.Addons() {
		addons = append(addons, AddonView{
			AddonCode:    a.AddonCode,
			Name:         a.Name,
			Category:     a.Category,
			Quantity:     a.Quantity,
			UnitPrice:    a.UnitPrice.String(),
			TotalPrice:   a.TotalPrice.String(),
			CurrencyCode: a.CurrencyCode,
		})
	}

	history := make([]StatusChangeView, 0, len(res.History()))
	for _, h := range res.History() {
		history = append(history, StatusChangeView{
			From:      h.From.String(),
			To:        h.To.String(),
			ChangedAt: h.ChangedAt,
		})
	}

	return &ReservationView{
		ReservationCode:   res.Code().Value(),
		Status:            res.Status().String(),
		SupplierCode:      res.SupplierCode(),
		PickupOfficeCode:  res.PickupOfficeCode(),
		DropoffOfficeCode: res.DropoffOfficeCode(),
		PickupDatetime:    res.PickupAt(),
		DropoffDatetime:   res.DropoffAt(),
		TotalAmount:       res.TotalAmount().String(),
		CreatedAt:         res.CreatedAt(),
		Addons:            addons,
		StatusHistory:     history,
	}, nil
}
