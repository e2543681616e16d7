package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dinehall/ordering/internal/menu"
	"github.com/dinehall/ordering/pkg/models"
)

type WebSocketHub interface {
	Broadcast(messageType string, data interface{}, source string)
}

// Handler exposes the order lifecycle and pricing engine over HTTP.
type Handler struct {
	service *Service
	pricing QuoteComputer
	menus   menu.Provider
	logger  *logrus.Logger
	wsHub   WebSocketHub
}

func NewHandler(service *Service, pricing QuoteComputer, menus menu.Provider, logger *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		pricing: pricing,
		menus:   menus,
		logger:  logger,
	}
}

func (h *Handler) SetWebSocketHub(hub WebSocketHub) {
	h.wsHub = hub
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/orders", h.ListOrders).Methods("GET")
	router.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	router.HandleFunc("/orders/{id}", h.UpdateOrder).Methods("PATCH")
	router.HandleFunc("/orders/{id}/submit", h.SubmitOrder).Methods("POST")
	router.HandleFunc("/orders/{id}/cancel", h.CancelOrder).Methods("POST")
	router.HandleFunc("/orders/{id}/coupon", h.ApplyCoupon).Methods("POST")
	router.HandleFunc("/orders/{id}/tip", h.UpdateTip).Methods("POST")
	router.HandleFunc("/pricing/quote", h.ComputeQuote).Methods("POST")
	router.HandleFunc("/restaurants", h.ListRestaurants).Methods("GET")
	router.HandleFunc("/restaurants/{slug}/menu", h.GetMenu).Methods("GET")
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Failed to decode create order request")
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_created", resp)
	h.respondWithJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var patch models.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.WithError(err).Error("Failed to decode order patch")
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_updated", order)
	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SubmitOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_submitted", resp)
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CancelOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_canceled", resp)
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CouponCode string `json:"coupon_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	order, err := h.service.ApplyCoupon(r.Context(), mux.Vars(r)["id"], body.CouponCode)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_updated", order)
	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateTip(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tip float64 `json:"tip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}

	order, err := h.service.UpdateTip(r.Context(), mux.Vars(r)["id"], body.Tip)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.broadcast("order_updated", order)
	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ListOrdersFilter{
		Status:       models.OrderStatus(q.Get("status")),
		RestaurantID: q.Get("restaurant_id"),
		TableID:      q.Get("table_id"),
	}

	result, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, result)
}

// ComputeQuote serves pre-checkout estimates. Soft pricing failures come
// back as 200 with the error code in the quote body.
func (h *Handler) ComputeQuote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid_request_body")
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.pricing.ComputeQuote(r.Context(), req))
}

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.menus.ListRestaurants(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list restaurants")
		h.respondWithError(w, http.StatusServiceUnavailable, "restaurants_unavailable")
		return
	}
	h.respondWithJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	expand := menu.ParseExpand(r.URL.Query().Get("expand"))

	m, err := h.menus.GetMenu(r.Context(), slug, expand)
	if err != nil {
		if errors.Is(err, menu.ErrMenuNotFound) {
			h.respondWithError(w, http.StatusNotFound, "menu_not_found")
			return
		}
		h.logger.WithError(err).WithField("restaurant_slug", slug).Error("Failed to fetch menu")
		h.respondWithError(w, http.StatusServiceUnavailable, "menu_unavailable")
		return
	}
	h.respondWithJSON(w, http.StatusOK, m)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ordering",
	})
}

func (h *Handler) broadcast(messageType string, data interface{}) {
	if h.wsHub != nil {
		h.wsHub.Broadcast(messageType, data, "ordering")
	}
}

func (h *Handler) respondWithDomainError(w http.ResponseWriter, err error) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		code := http.StatusBadRequest
		if domainErr.NotFound {
			code = http.StatusNotFound
		}
		h.respondWithError(w, code, domainErr.Code)
		return
	}
	h.logger.WithError(err).Error("Order operation failed")
	h.respondWithError(w, http.StatusInternalServerError, "internal_error")
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, errorCode string) {
	h.respondWithJSON(w, code, map[string]string{"error": errorCode})
}
