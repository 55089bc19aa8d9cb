package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// EntryLineRequest is one leg of a manual journal entry. Amounts are always
// positive; direction is carried by Type.
type EntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Type         string          `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	Description  string          `json:"description"`
	CostCenterID *int64          `json:"costCenterID"`
}

// CreateEntryRequest defines the data needed to create a manual journal entry.
type CreateEntryRequest struct {
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest carries the optional override description for a reversal.
type ReverseEntryRequest struct {
	Description string `json:"description"`
}

// TransactionResponse defines the data returned for a transaction leg.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"` // DEBIT or CREDIT
	Description   string          `json:"description,omitempty"`
	CostCenterID  *int64          `json:"costCenterID,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID     string     `json:"entryID"`
	Reference   string     `json:"reference"`
	Date        time.Time  `json:"date"`
	EntryType   string     `json:"entryType"`
	Description string     `json:"description"`
	IsPosted    bool       `json:"isPosted"`
	PostedAt    *time.Time `json:"postedAt,omitempty"`
	PostedBy    string     `json:"postedBy,omitempty"`
	ReversesID  *string    `json:"reversesEntryID,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`
}

// GetEntryResponse combines an entry with its transaction legs.
type GetEntryResponse struct {
	Entry        EntryResponse         `json:"entry"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListEntriesResponse wraps the entry list.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		EntryID:       txn.EntryID,
		AccountID:     txn.AccountID,
		Amount:        txn.Amount,
		Type:          string(txn.TransactionType),
		Description:   txn.Description,
		CostCenterID:  txn.CostCenterID,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to its DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		Reference:   e.Reference,
		Date:        e.Date,
		EntryType:   string(e.EntryType),
		Description: e.Description,
		IsPosted:    e.IsPosted,
		PostedAt:    e.PostedAt,
		PostedBy:    e.PostedBy,
		ReversesID:  e.ReversesEntryID,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToListEntriesResponse converts a slice of entries to the list DTO.
func ToListEntriesResponse(entries []domain.JournalEntry) ListEntriesResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(&e)
	}
	return ListEntriesResponse{Entries: res}
}
