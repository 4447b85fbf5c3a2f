package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/infra"
	"reservas-api/internal/infra/db"
	"reservas-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

type addonRecord struct {
	AddonCode    string `json:"addon_code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
	CurrencyCode string `json:"currency_code"`
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) (int64, error) {
	customer, err := json.Marshal(res.Customer())
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to encode customer snapshot", err)
	}
	vehicle, err := json.Marshal(res.Vehicle())
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to encode vehicle snapshot", err)
	}
	addons, err := encodeAddons(res.Addons())
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to encode addons", err)
	}

	const query = `
		INSERT INTO reservations (
			code, supplier_code, pickup_office_code, dropoff_office_code,
			pickup_datetime, dropoff_datetime, total_amount,
			customer_snapshot, vehicle_snapshot, addons, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	err = r.db.QueryRow(ctx, query,
		res.Code().Value(),
		res.SupplierCode(),
		res.PickupOfficeCode(),
		res.DropoffOfficeCode(),
		res.PickupAt(),
		res.DropoffAt(),
		res.TotalAmount().String(),
		customer,
		vehicle,
		addons,
		res.Status().String(),
		res.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return 0, wrapPgError("failed to insert reservation", err)
	}
	return id, nil
}

func (r *ReservationRepository) FindByCode(ctx context.Context, code reservation.Code) (*reservation.Reservation, error) {
	const query = `
		SELECT id, code, supplier_code, pickup_office_code, dropoff_office_code,
		       pickup_datetime, dropoff_datetime, total_amount::text,
		       customer_snapshot, vehicle_snapshot, addons, status, created_at
		FROM reservations
		WHERE code = $1`

	var (
		row struct {
			id                int64
			code              string
			supplierCode      string
			pickupOfficeCode  string
			dropoffOfficeCode string
			pickupAt          time.Time
			dropoffAt         time.Time
			totalAmount       string
			status            string
			createdAt         time.Time
		}
		customerRaw []byte
		vehicleRaw  []byte
		addonsRaw   []byte
	)

	err := r.db.QueryRow(ctx, query, code.Value()).Scan(
		&row.id, &row.code, &row.supplierCode, &row.pickupOfficeCode, &row.dropoffOfficeCode,
		&row.pickupAt, &row.dropoffAt, &row.totalAmount,
		&customerRaw, &vehicleRaw, &addonsRaw, &row.status, &row.createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", errs.ErrReservationNotFound)
		}
		return nil, wrapPgError("failed to load reservation", err)
	}

	amount, err := reservation.ParseMoney(row.totalAmount)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to parse stored amount", err)
	}

	var customer, vehicle reservation.Snapshot
	if err := json.Unmarshal(customerRaw, &customer); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode customer snapshot", err)
	}
	if err := json.Unmarshal(vehicleRaw, &vehicle); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode vehicle snapshot", err)
	}

	addons, err := decodeAddons(addonsRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode addons", err)
	}

	history, err := r.loadHistory(ctx, code)
	if err != nil {
		return nil, err
	}

	return reservation.Reconstruct(
		row.id,
		code,
		row.supplierCode,
		row.pickupOfficeCode,
		row.dropoffOfficeCode,
		row.pickupAt,
		row.dropoffAt,
		amount,
		customer,
		vehicle,
		reservation.Status(row.status),
		row.createdAt,
		addons,
		history,
	), nil
}

func (r *ReservationRepository) ExistsCode(ctx context.Context, code reservation.Code) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reservations WHERE code = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code.Value()).Scan(&exists); err != nil {
		return false, wrapPgError("failed to check code existence", err)
	}
	return exists, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, code reservation.Code, status reservation.Status) error {
	const query = `UPDATE reservations SET status = $2, updated_at = now() WHERE code = $1`

	tag, err := r.db.Exec(ctx, query, code.Value(), status.String())
	if err != nil {
		return wrapPgError("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "reservation not found", errs.ErrReservationNotFound)
	}
	return nil
}

func (r *ReservationRepository) AddStatusHistory(ctx context.Context, code reservation.Code, change reservation.StatusChange) error {
	const query = `
		INSERT INTO reservation_status_history (reservation_code, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query,
		code.Value(),
		change.From.String(),
		change.To.String(),
		change.ChangedAt,
	)
	if err != nil {
		return wrapPgError("failed to append status history", err)
	}
	return nil
}

func (r *ReservationRepository) AddProviderRequest(ctx context.Context, req reservation.ProviderRequest) error {
	requestPayload, err := json.Marshal(req.RequestPayload)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode request payload", err)
	}
	responsePayload, err := json.Marshal(req.ResponsePayload)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode response payload", err)
	}

	const query = `
		INSERT INTO reservation_provider_requests (
			reservation_code, provider_code, request_type,
			request_payload, response_payload, status, created_at, responded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		req.ReservationCode.Value(),
		req.ProviderCode,
		string(req.RequestType),
		requestPayload,
		responsePayload,
		string(req.Status),
		req.CreatedAt,
		req.RespondedAt,
	)
	if err != nil {
		return wrapPgError("failed to record provider request", err)
	}
	return nil
}

func (r *ReservationRepository) CountSuccessfulRequests(ctx context.Context, code reservation.Code, requestType reservation.RequestType) (int, error) {
	const query = `
		SELECT count(*)
		FROM reservation_provider_requests
		WHERE reservation_code = $1 AND request_type = $2 AND status = $3`

	var count int
	err := r.db.QueryRow(ctx, query,
		code.Value(),
		string(requestType),
		string(reservation.RequestStatusSuccess),
	).Scan(&count)
	if err != nil {
		return 0, wrapPgError("failed to count successful requests", err)
	}
	return count, nil
}

func (r *ReservationRepository) loadHistory(ctx context.Context, code reservation.Code) ([]reservation.StatusChange, error) {
	const query = `
		SELECT from_status, to_status, changed_at
		FROM reservation_status_history
		WHERE reservation_code = $1
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, code.Value())
	if err != nil {
		return nil, wrapPgError("failed to load status history", err)
	}
	defer rows.Close()

	var history []reservation.StatusChange
	for rows.Next() {
		var (
			from, to  string
			changedAt time.Time
		)
		if err := rows.Scan(&from, &to, &changedAt); err != nil {
			return nil, wrapPgError("failed to scan status history row", err)
		}
		history = append(history, reservation.StatusChange{
			From:      reservation.Status(from),
			To:        reservation.Status(to),
			ChangedAt: changedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to iterate status history", err)
	}
	return history, nil
}

func encodeAddons(addons []reservation.Addon) ([]byte, error) {
	records := make([]addonRecord, 0, len(addons))
	for _, a := range addons {
		records = append(records, addonRecord{
			AddonCode:    a.AddonCode,
			Name:         a.Name,
			Category:     a.Category,
			Quantity:     a.Quantity,
			UnitPrice:    a.UnitPrice.String(),
			TotalPrice:   a.TotalPrice.String(),
			CurrencyCode: a.CurrencyCode,
		})
	}
	return json.Marshal(records)
}

func decodeAddons(raw []byte) ([]reservation.Addon, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []addonRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	addons := make([]reservation.Addon, 0, len(records))
	for _, rec := range records {
		unit, err := reservation.ParseMoney(rec.UnitPrice)
		if err != nil {
			return nil, err
		}
		total, err := reservation.ParseMoney(rec.TotalPrice)
		if err != nil {
			return nil, err
		}
		addons = append(addons, reservation.Addon{
			AddonCode:    rec.AddonCode,
			Name:         rec.Name,
			Category:     rec.Category,
			Quantity:     rec.Quantity,
			UnitPrice:    unit,
			TotalPrice:   total,
			CurrencyCode: rec.CurrencyCode,
		})
	}
	return addons, nil
}

func wrapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, msg, err)
		}
	}
	return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
}
