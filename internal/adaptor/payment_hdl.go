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

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// ProcessPayment handles POST /api/payments (protected, requester)
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.service.ProcessPayment(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "process payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// GetPayment handles GET /api/payments/{id} (protected)
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")

	payment, err := h.service.GetPaymentByID(r.Context(), userID.String(), paymentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetReceipt handles GET /api/payments/{id}/receipt (protected)
func (h *PaymentHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")

	receipt, err := h.service.GetReceipt(r.Context(), userID.String(), paymentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get receipt")
		return
	}

	utils.ResponseSuccess(w, "success", receipt)
}

// GetRequesterPayments handles GET /api/requester/payments (protected)
func (h *PaymentHandler) GetRequesterPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parsePaginatedRequest(r)

	payments, err := h.service.GetRequesterPayments(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get requester payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// GetProviderPayments handles GET /api/provider/payments (protected, provider)
func (h *PaymentHandler) GetProviderPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parsePaginatedRequest(r)

	payments, err := h.service.GetProviderPayments(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get provider payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// GetEarningsSummary handles GET /api/provider/earnings (protected, provider)
func (h *PaymentHandler) GetEarningsSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.EarningsSummaryRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}

	summary, err := h.service.GetEarningsSummary(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get earnings summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

func parsePaginatedRequest(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
