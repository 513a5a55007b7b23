package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/feeledger/feeledger/internal/models"
	"github.com/feeledger/feeledger/internal/service"
)

func (s *Server) handleListFeeRecords(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	records, err := s.fees.ListByStudent(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	if records == nil {
		records = []models.FeeRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

type expectationRequest struct {
	StudentID         string `json:"student_id"`
	InstallmentNumber int    `json:"installment_number"`
	Amount            string `json:"amount"`
	DueDate           string `json:"due_date"`
	Notes             string `json:"notes"`
}

func (s *Server) handleCreateExpectation(w http.ResponseWriter, r *http.Request) {
	var req expectationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}

	rec, err := s.fees.CreateExpectation(r.Context(), service.ExpectationInput{
		StudentID:         req.StudentID,
		InstallmentNumber: req.InstallmentNumber,
		Amount:            amount,
		DueDate:           req.DueDate,
		Notes:             req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type recordUpdateRequest struct {
	DueDate       string `json:"due_date"`
	PaymentMethod string `json:"payment_method"`
	ReceiptFolio  string `json:"receipt_folio"`
	BankReference string `json:"bank_reference"`
	Notes         string `json:"notes"`
}

func (s *Server) handleUpdateFeeRecord(w http.ResponseWriter, r *http.Request) {
	var req recordUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec, err := s.fees.Update(r.Context(), chi.URLParam(r, "id"), service.RecordUpdate{
		DueDate:       req.DueDate,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		ReceiptFolio:  req.ReceiptFolio,
		BankReference: req.BankReference,
		Notes:         req.Notes,
	})
	if err != nil {
		writeStoreAware(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCancelFeeRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.fees.Cancel(r.Context(), id); err != nil {
		writeStoreAware(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cancelled": id})
}
