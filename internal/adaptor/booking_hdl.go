package adaptor

import (
	"encoding/json"
	"net/http"

	"service-marketplace/internal/dto/request"
	"service-marketplace/internal/usecase"
	"service-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.GetBookingByID(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// AcceptBooking handles PUT /api/bookings/{id}/accept (protected, provider)
func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.AcceptBooking(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "accept booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RejectBooking handles PUT /api/bookings/{id}/reject (protected, provider)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	var req request.RejectBookingRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	booking, err := h.service.RejectBooking(r.Context(), userID.String(), bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "reject booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	bookingID := chi.URLParam(r, "id")

	var req request.CancelBookingRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	booking, err := h.service.CancelBooking(r.Context(), userID.String(), role, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBookingStatus handles PUT /api/bookings/{id}/status (protected)
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	bookingID := chi.URLParam(r, "id")

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), userID.String(), role, bookingID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetRequesterBookings handles GET /api/requester/bookings (protected)
func (h *BookingHandler) GetRequesterBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parseListBookingsRequest(r)

	bookings, err := h.service.GetRequesterBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get requester bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetProviderBookings handles GET /api/provider/bookings (protected, provider)
func (h *BookingHandler) GetProviderBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parseListBookingsRequest(r)

	bookings, err := h.service.GetProviderBookings(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get provider bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

func parseListBookingsRequest(r *http.Request) *request.ListBookingsRequest {
	query := r.URL.Query()

	req := &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	return req
}
