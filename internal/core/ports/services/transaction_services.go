package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// TransactionWriterSvc defines write operations for ledger transactions.
type TransactionWriterSvc interface {
	// PostTransaction validates and persists a primary entry together with
	// the virtual entries derived from it, as one atomic batch.
	PostTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error)

	// DeleteTransaction removes a primary entry; its derived entries cascade.
	DeleteTransaction(ctx context.Context, userID string, entryID string) error
}

// TransactionReaderSvc defines read operations for ledger transactions.
type TransactionReaderSvc interface {
	// GetTransaction retrieves a single entry with its derived entries.
	GetTransaction(ctx context.Context, userID string, entryID string) (*domain.PostedTransaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
