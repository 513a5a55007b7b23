package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feeledger/feeledger/internal/models"
)

type paymentRequest struct {
	StudentID         string `json:"student_id"`
	Amount            string `json:"amount"`
	InstallmentNumber *int   `json:"installment_number"`
	IsFreePayment     bool   `json:"is_free_payment"`
	PaymentMethod     string `json:"payment_method"`
	PaymentDate       string `json:"payment_date"`
	ReceiptFolio      string `json:"receipt_folio"`
	BankReference     string `json:"bank_reference"`
	Notes             string `json:"notes"`
	ConfirmMismatch   bool   `json:"confirm_mismatch"`
}

func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.StudentID == "" {
		writeError(w, http.StatusBadRequest, "student_id is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}
	if amount.Sign() <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		writeError(w, http.StatusBadRequest, "unknown payment method")
		return
	}
	if req.PaymentDate != "" {
		if _, err := time.Parse("2006-01-02", req.PaymentDate); err != nil {
			writeError(w, http.StatusBadRequest, "payment_date must be YYYY-MM-DD")
			return
		}
	}

	candidate := models.PaymentCandidate{
		StudentID:         req.StudentID,
		Amount:            amount,
		InstallmentNumber: req.InstallmentNumber,
		IsFreePayment:     req.IsFreePayment,
		PaymentMethod:     method,
		PaymentDate:       req.PaymentDate,
		ReceiptFolio:      req.ReceiptFolio,
		BankReference:     req.BankReference,
		Notes:             req.Notes,
	}

	result, err := s.payments.SubmitPayment(r.Context(), candidate, req.ConfirmMismatch)
	if err != nil {
		// Nothing partial persists on a store failure, so the caller can
		// resubmit the same candidate as-is.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(Response{
			Data:  map[string]string{"status": "store_error"},
			Error: "payment could not be processed, retry the submission",
		})
		return
	}

	status := http.StatusCreated
	switch result.Status {
	case models.SubmissionRejected:
		status = http.StatusConflict
	case models.SubmissionPendingConfirmation:
		status = http.StatusAccepted
	}
	writeJSON(w, status, result)
}
