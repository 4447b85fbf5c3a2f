//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservas-api/internal/domain/reservation"
	"reservas-api/internal/handler/api"
	"reservas-api/internal/handler/api/mock"
	"reservas-api/internal/pkg/errs"
	"reservas-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockCreator *mock.MockReservationCreator
	mockReader  *mock.MockReservationReader
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCreator = mock.NewMockReservationCreator(s.mockCtrl)
	s.mockReader = mock.NewMockReservationReader(s.mockCtrl)
	handler := api.NewReservationHandler(s.mockCreator, s.mockReader)

	s.router.POST("/reservations", handler.CreateReservation)
	s.router.GET("/reservations/:code", handler.GetReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) performJSON(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validCreateBody() map[string]any {
	return map[string]any{
		"supplier_code":       "HERTZ",
		"pickup_office_code":  "MAD01",
		"dropoff_office_code": "MAD02",
		"pickup_datetime":     "2026-12-01T10:00:00Z",
		"dropoff_datetime":    "2026-12-03T10:00:00Z",
		"total_amount":        "180.50",
		"customer_snapshot":   map[string]any{"name": "Ana"},
		"vehicle_snapshot":    map[string]any{"category": "compact"},
	}
}

func createdReservation(s *ReservationHandlerTestSuite) *reservation.Reservation {
	code, err := reservation.NewCode("ABCD1234")
	s.Require().NoError(err)
	pickup := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	res, err := reservation.New(
		code, "HERTZ", "MAD01", "MAD02",
		pickup, pickup.Add(48*time.Hour),
		reservation.NewMoney(18050),
		reservation.Snapshot{"name": "Ana"}, nil, nil,
		pickup.Add(-time.Hour),
	)
	s.Require().NoError(err)
	return res
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	s.Run("success: returns 201 with the allocated code", func() {
		s.mockCreator.EXPECT().Execute(gomock.Any(), gomock.Any()).
			Return(createdReservation(s), nil).Times(1)

		rec := s.performJSON(http.MethodPost, "/reservations", validCreateBody())
		s.Equal(http.StatusCreated, rec.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("ABCD1234", body["reservation_code"])
		s.Equal("CREATED", body["status"])
	})

	s.Run("error: 422 on malformed body", func() {
		rec := s.performJSON(http.MethodPost, "/reservations", map[string]any{"supplier_code": "HERTZ"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: 422 on unparseable amount", func() {
		body := validCreateBody()
		body["total_amount"] = "lots"
		rec := s.performJSON(http.MethodPost, "/reservations", body)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			creatorError   error
			expectedStatus int
		}{
			{"validation failure", errs.ErrValidation, http.StatusUnprocessableEntity},
			{"invalid window", reservation.ErrInvalidWindow, http.StatusBadRequest},
			{"non-positive amount", reservation.ErrNonPositiveAmount, http.StatusBadRequest},
			{"code space exhausted", errs.ErrCodeGenerationExhausted, http.StatusBadRequest},
			{"unexpected failure", errs.New("db down"), http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCreator.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Return(nil, tc.creatorError).Times(1)

				rec := s.performJSON(http.MethodPost, "/reservations", validCreateBody())
				s.Equal(tc.expectedStatus, rec.Code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("success: returns 200 with the view", func() {
		view := &queries.ReservationView{
			ReservationCode: "ABCD1234",
			Status:          "PAID",
			SupplierCode:    "HERTZ",
			TotalAmount:     "180.50",
		}
		s.mockReader.EXPECT().GetByCode(gomock.Any(), "ABCD1234").
			Return(view, nil).Times(1)

		rec := s.performJSON(http.MethodGet, "/reservations/ABCD1234", nil)
		s.Equal(http.StatusOK, rec.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("PAID", body["status"])
		s.Equal("180.50", body["total_amount"])
	})

	s.Run("error: 422 on a malformed code", func() {
		s.mockReader.EXPECT().GetByCode(gomock.Any(), "bad!").
			Return(nil, errs.Mark(errs.New("invalid code"), errs.ErrValidation)).Times(1)

		rec := s.performJSON(http.MethodGet, "/reservations/bad!", nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: 404 when the reservation does not exist", func() {
		s.mockReader.EXPECT().GetByCode(gomock.Any(), "ZZZZ9999").
			Return(nil, errs.ErrReservationNotFound).Times(1)

		rec := s.performJSON(http.MethodGet, "/reservations/ZZZZ9999", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
