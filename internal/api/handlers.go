/**
 * @description
 * This file contains the HTTP handlers for the onboarding-service's API endpoints.
 * Handlers are responsible for parsing incoming requests, calling the appropriate
 * methods on the application service, and writing the HTTP response. They act as the
 * bridge between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 * - pkg/bankclient: For the bank API's not-found sentinel.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/techreo/onboarding-service/internal/app"
	"github.com/techreo/onboarding-service/internal/domain"
	"github.com/techreo/onboarding-service/internal/store"
	"github.com/techreo/onboarding-service/pkg/bankclient"
)

// OnboardingHandlers holds the application service that handlers will use.
type OnboardingHandlers struct {
	service          *app.Service
	signupLimiter    *app.RedisSignupRateLimiter
	signupRatePerMin int
}

// NewOnboardingHandlers creates a new instance of OnboardingHandlers.
func NewOnboardingHandlers(service *app.Service, limiter *app.RedisSignupRateLimiter, signupRatePerMin int) *OnboardingHandlers {
	return &OnboardingHandlers{
		service:          service,
		signupLimiter:    limiter,
		signupRatePerMin: signupRatePerMin,
	}
}

// SignupHandler handles customer registration requests. The endpoint itself is
// unauthenticated, but the caller's bearer credential is forwarded to the
// customer directory.
func (h *OnboardingHandlers) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if !h.consumeSignupRateLimit(w, r) {
		return
	}

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if verr := app.ValidateSignupRequest(req); verr != nil {
		h.writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	customerID, err := h.service.Signup(r.Context(), r.Header.Get("Authorization"), req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailTaken):
			h.writeError(w, http.StatusBadRequest, "El correo ya está registrado")
		case errors.Is(err, app.ErrPhoneTaken):
			h.writeError(w, http.StatusBadRequest, "El teléfono ya está registrado")
		default:
			log.Printf("level=error component=api endpoint=signup msg=\"directory call failed\" err=%v", err)
			h.writeError(w, http.StatusBadGateway, "El servicio de clientes no está disponible")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"customerId": customerID})
}

// GeneralDataHandler attaches the legal-identity fields to the authenticated
// customer's record.
func (h *OnboardingHandlers) GeneralDataHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authenticatedCustomerID(w, r)
	if !ok {
		return
	}

	var req domain.GeneralDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateGeneralData(r.Context(), customerID, req); err != nil {
		switch {
		case errors.Is(err, app.ErrIdentityCodeTaken):
			h.writeMessage(w, http.StatusBadRequest, "La CURP o RFC ya está registrado")
		case errors.Is(err, store.ErrCustomerNotFound):
			h.writeMessage(w, http.StatusBadRequest, "El cliente no ha sido creado")
		default:
			log.Printf("level=error component=api endpoint=customer_general msg=\"update failed\" customer_id=%s err=%v", customerID, err)
			h.writeMessage(w, http.StatusInternalServerError, "Error al actualizar los datos generales del cliente")
		}
		return
	}

	h.writeMessage(w, http.StatusOK, "Datos generales del cliente actualizados correctamente")
}

// SignDocumentsHandler issues the signing token and provisions the savings and
// CLABE accounts for the authenticated customer.
func (h *OnboardingHandlers) SignDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authenticatedCustomerID(w, r)
	if !ok {
		return
	}

	result, err := h.service.SignDocuments(r.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCustomerNotFound):
			h.writeMessage(w, http.StatusBadRequest, "El cliente no ha sido creado")
		default:
			log.Printf("level=error component=api endpoint=sign_documents msg=\"provisioning failed\" customer_id=%s err=%v", customerID, err)
			h.writeMessage(w, http.StatusInternalServerError, "Error al firmar los documentos")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Cuenta de ahorro y cuenta clabe creadas correctamente",
		"token":       result.Token,
		"contractUrl": result.ContractURL,
	})
}

// SavingsBalanceHandler returns the balance of the authenticated customer's
// savings account.
func (h *OnboardingHandlers) SavingsBalanceHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authenticatedCustomerID(w, r)
	if !ok {
		return
	}

	balance, err := h.service.GetSavingsBalance(r.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSavingsAccountNotFound):
			h.writeMessage(w, http.StatusBadRequest, "No se encontró la cuenta de ahorro del cliente")
		default:
			log.Printf("level=error component=api endpoint=savings_balance msg=\"balance read failed\" customer_id=%s err=%v", customerID, err)
			h.writeMessage(w, http.StatusInternalServerError, "Error al obtener el saldo de la cuenta de ahorro")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// BankBalanceHandler fetches a balance from the external bank API by raw
// account number. Not-found maps to 404; a failing upstream maps to 502 so the
// two cases stay distinguishable to callers.
func (h *OnboardingHandlers) BankBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticatedCustomerID(w, r); !ok {
		return
	}

	accountNumber := chi.URLParam(r, "accountNumber")
	balance, err := h.service.GetExternalBalance(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, bankclient.ErrAccountNotFound) {
			h.writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		log.Printf("level=error component=api endpoint=bank_balance msg=\"bank api call failed\" account_number=%s err=%v", accountNumber, err)
		h.writeError(w, http.StatusBadGateway, "Bank API unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// authenticatedCustomerID pulls the caller's identity out of the request
// context and parses it as a UUID, writing the failure response itself.
func (h *OnboardingHandlers) authenticatedCustomerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := GetCustomerID(r.Context())
	if !ok {
		http.Error(w, "Could not get customer ID from context", http.StatusInternalServerError)
		return uuid.Nil, false
	}
	customerID, err := uuid.Parse(idStr)
	if err != nil {
		log.Printf("level=warn component=api msg=\"invalid customer id in token\" customer_id=%s", idStr)
		http.Error(w, "Invalid customer ID format", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return customerID, true
}

// consumeSignupRateLimit enforces the per-IP signup limit. Limiting is a no-op
// when Redis is not configured.
func (h *OnboardingHandlers) consumeSignupRateLimit(w http.ResponseWriter, r *http.Request) bool {
	if h.signupLimiter == nil || h.signupRatePerMin <= 0 {
		return true
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	count, retryAfter, err := h.signupLimiter.ConsumeRateLimit(r.Context(), "signup", ip, h.signupRatePerMin, time.Minute)
	if err != nil {
		// Limiter outages must not block signups.
		log.Printf("level=warn component=api endpoint=signup msg=\"rate limiter unavailable\" err=%v", err)
		return true
	}
	if count > h.signupRatePerMin {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.writeError(w, http.StatusTooManyRequests, "Too many signup attempts. Please wait and try again.")
		return false
	}
	return true
}

// writeJSON is a helper for writing JSON responses.
func (h *OnboardingHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses with an "error" key.
func (h *OnboardingHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeMessage is a helper for writing JSON responses with a "message" key,
// matching the customer endpoints' response shape.
func (h *OnboardingHandlers) writeMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"message": message})
}
