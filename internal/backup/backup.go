package backup

import (
	"time"

	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/dues-management/internal/dues"
)

// DocumentVersion tags exported backups. Import accepts any document
// that parses; the tag is informational.
const DocumentVersion = "2.4.0"

// Document is the flat JSON backup of the whole bookkeeping state. The
// ledger keeps its nested resident -> date -> amount shape so a backup
// is readable and diffable as plain JSON.
type Document struct {
	Version      string                      `json:"version"`
	ExportedAt   time.Time                   `json:"exported_at"`
	Residents    []ResidentRecord            `json:"residents"`
	Transactions []TransactionRecord         `json:"transactions"`
	Ledger       map[string]map[string]int64 `json:"ledger"`
}

type ResidentRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	FamilyCardNumber string    `json:"family_card_number,omitempty"`
	WhatsApp         string    `json:"whatsapp,omitempty"`
	Block            string    `json:"block,omitempty"`
	RegisteredAt     time.Time `json:"registered_at"`
}

type TransactionRecord struct {
	ID             string `json:"id"`
	DisplayDate    string `json:"display_date"`
	Description    string `json:"description"`
	SubDescription string `json:"sub_description,omitempty"`
	Category       string `json:"category"`
	AmountIDR      int64  `json:"amount_idr"`
	TimestampMs    int64  `json:"timestamp_ms"`
}

func residentRecords(rows []*residentDatamodel.Resident) []ResidentRecord {
	records := make([]ResidentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ResidentRecord{
			ID:               row.ID,
			Name:             row.Name,
			FamilyCardNumber: row.FamilyCardNumber,
			WhatsApp:         row.WhatsApp,
			Block:            row.Block,
			RegisteredAt:     row.RegisteredAt,
		})
	}
	return records
}

func residentRows(records []ResidentRecord, now time.Time) []*residentDatamodel.Resident {
	rows := make([]*residentDatamodel.Resident, 0, len(records))
	for _, record := range records {
		registeredAt := record.RegisteredAt
		if registeredAt.IsZero() {
			registeredAt = now
		}
		rows = append(rows, &residentDatamodel.Resident{
			ID:               record.ID,
			Name:             record.Name,
			FamilyCardNumber: record.FamilyCardNumber,
			WhatsApp:         record.WhatsApp,
			Block:            record.Block,
			RegisteredAt:     registeredAt,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	return rows
}

func transactionRecords(rows []*txDatamodel.Transaction) []TransactionRecord {
	records := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, TransactionRecord{
			ID:             row.ID,
			DisplayDate:    row.DisplayDate,
			Description:    row.Description,
			SubDescription: row.SubDescription,
			Category:       row.Category,
			AmountIDR:      row.AmountIDR,
			TimestampMs:    row.TimestampMs,
		})
	}
	return records
}

func transactionRows(records []TransactionRecord, now time.Time) []*txDatamodel.Transaction {
	rows := make([]*txDatamodel.Transaction, 0, len(records))
	for _, record := range records {
		rows = append(rows, &txDatamodel.Transaction{
			ID:             record.ID,
			DisplayDate:    record.DisplayDate,
			Description:    record.Description,
			SubDescription: record.SubDescription,
			Category:       record.Category,
			AmountIDR:      record.AmountIDR,
			TimestampMs:    record.TimestampMs,
			CreatedAt:      now,
		})
	}
	return rows
}

func ledgerRows(ledger map[string]map[string]int64) []*duesDatamodel.Entry {
	return dues.LedgerToRows(dues.Ledger(ledger))
}

func ledgerDocument(rows []*duesDatamodel.Entry) map[string]map[string]int64 {
	return dues.LedgerFromRows(rows)
}
