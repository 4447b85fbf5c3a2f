package api

import (
	"context"
	"errors"
	"net/http"

	"reservas-api/internal/domain/reservation"
	reqdto "reservas-api/internal/handler/dto/request"
	resdto "reservas-api/internal/handler/dto/response"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/pkg/security"
	"reservas-api/internal/usecase/commands"
	"reservas-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=reservation.go -destination=mock/reservation_mock.go -package=mock

type ReservationCreator interface {
	Execute(ctx context.Context, in commands.CreateReservationInput) (*reservation.Reservation, error)
}

type ReservationReader interface {
	GetByCode(ctx context.Context, code string) (*queries.ReservationView, error)
}

type ReservationHandler struct {
	creator ReservationCreator
	reader  ReservationReader
}

func NewReservationHandler(creator ReservationCreator, reader ReservationReader) *ReservationHandler {
	return &ReservationHandler{
		creator: creator,
		reader:  reader,
	}
}

// @Summary Create reservation
// @Description Create a reservation and enqueue its payment and booking dispatches
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body request.CreateReservationRequest true "Reservation request"
// @Success 201 {object} response.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	input, err := req.ToInput(c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid amount format",
		})
		return
	}

	res, err := h.creator.Execute(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation), errors.Is(err, security.ErrUnsafeInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Request contains invalid or unsafe fields",
			})
		case errors.Is(err, reservation.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Dropoff must be after pickup",
			})
		case errors.Is(err, reservation.ErrNonPositiveAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Total amount must be greater than zero",
			})
		case errors.Is(err, errs.ErrCodeGenerationExhausted):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unable to allocate a reservation code",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservation(res))
}

// @Summary Get reservation
// @Description Get reservation details by code
// @Tags reservations
// @Produce json
// @Param code path string true "Reservation code"
// @Success 200 {object} response.ReservationDetailResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/reservations/{code} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	view, err := h.reader.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid reservation code format",
			})
		case errors.Is(err, errs.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
