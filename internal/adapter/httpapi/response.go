package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/shop-fulfiller/internal/domain"
)

type statusResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	FulfillmentID string `json:"fulfillment_id,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOutcome — ответ для терминального бизнес-результата.
func writeOutcome(w http.ResponseWriter, out domain.Outcome) {
	switch out.Kind {
	case domain.OutcomeCommitted:
		writeJSON(w, http.StatusOK, statusResponse{
			Status:        "success",
			Message:       fmt.Sprintf("Order %s fulfilled successfully", out.OrderName),
			FulfillmentID: out.FulfillmentID,
		})
	case domain.OutcomeAlreadyFulfilled:
		writeJSON(w, http.StatusOK, statusResponse{
			Status:  "info",
			Message: fmt.Sprintf("Order %s has no open fulfillment orders; it is already fulfilled", out.OrderName),
		})
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   strings.Join(out.Reasons, "; "),
			Details: out.Reasons,
		})
	}
}

// failureStatus — код ответа и безопасное сообщение для ошибки этапа.
func failureStatus(err error, invoice domain.InvoiceQuery) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized", "unauthenticated"
	case errors.Is(err, domain.ErrMissingInvoice):
		return http.StatusBadRequest, "Missing invoice number (invoiceNumber or invoiceNo)", "missing_invoice"
	case errors.Is(err, domain.ErrMissingTenant):
		return http.StatusBadRequest, "Missing shop", "missing_tenant"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, fmt.Sprintf("Order %s not found", invoice), "not_found"
	default:
		return http.StatusInternalServerError, "Failed to fulfill order, please try again", "upstream_unavailable"
	}
}
