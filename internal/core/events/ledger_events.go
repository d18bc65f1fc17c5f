package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentRecorded     = "dues.payment_recorded"
	EventTypeTransactionRecorded = "ledger.transaction_recorded"
	EventTypeBackupImported      = "backup.imported"
)

type PaymentRecordedEvent struct {
	BaseEvent
	ResidentID string `json:"resident_id"`
	Mode       string `json:"mode"`
	AmountIDR  int64  `json:"amount_idr"`
	DaysPaid   int    `json:"days_paid"`
}

func NewPaymentRecordedEvent(residentID, mode string, amountIDR int64, daysPaid int) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"resident_id": residentID,
				"mode":        mode,
				"amount_idr":  amountIDR,
				"days_paid":   daysPaid,
			},
		},
		ResidentID: residentID,
		Mode:       mode,
		AmountIDR:  amountIDR,
		DaysPaid:   daysPaid,
	}
}

type TransactionRecordedEvent struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	Category      string `json:"category"`
	AmountIDR     int64  `json:"amount_idr"`
}

func NewTransactionRecordedEvent(transactionID, category string, amountIDR int64) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"category":       category,
				"amount_idr":     amountIDR,
			},
		},
		TransactionID: transactionID,
		Category:      category,
		AmountIDR:     amountIDR,
	}
}

type BackupImportedEvent struct {
	BaseEvent
	Residents    int `json:"residents"`
	Transactions int `json:"transactions"`
	LedgerCells  int `json:"ledger_cells"`
}

func NewBackupImportedEvent(residents, transactions, ledgerCells int) *BackupImportedEvent {
	return &BackupImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBackupImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"residents":    residents,
				"transactions": transactions,
				"ledger_cells": ledgerCells,
			},
		},
		Residents:    residents,
		Transactions: transactions,
		LedgerCells:  ledgerCells,
	}
}
