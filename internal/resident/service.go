package resident

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"sort"
	"strings"
	"time"

	errors "github.com/frahmantamala/dues-management/internal"
	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	"github.com/frahmantamala/dues-management/internal/dues"
	"github.com/google/uuid"
)

// Repository interface defines the data access methods for residents
type Repository interface {
	Create(row *residentDatamodel.Resident) error
	GetByID(id string) (*residentDatamodel.Resident, error)
	GetAll() ([]*residentDatamodel.Resident, error)
	Update(row *residentDatamodel.Resident) error
	Delete(id string) error
}

// Service handles resident master data
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock overrides the service time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateResident registers a new resident with a generated id.
func (s *Service) CreateResident(dto CreateResidentDTO) (*Resident, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("resident validation failed", "error", err)
		return nil, err
	}

	now := s.now()
	row := &residentDatamodel.Resident{
		ID:               uuid.New().String(),
		Name:             dto.Name,
		FamilyCardNumber: dto.FamilyCardNumber,
		WhatsApp:         dto.WhatsApp,
		Block:            dto.Block,
		RegisteredAt:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create resident", "error", err, "name", dto.Name)
		return nil, errors.NewInternalError("failed to create resident", err)
	}

	s.logger.Info("resident registered", "resident_id", row.ID, "name", row.Name, "block", row.Block)
	return fromRow(row), nil
}

// GetResident retrieves one resident by id.
func (s *Service) GetResident(id string) (*Resident, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get resident", "error", err, "resident_id", id)
		return nil, errors.ErrResidentNotFound
	}
	return fromRow(row), nil
}

// ListResidents returns residents sorted by name, optionally narrowed
// by a block filter and a free-text search over name and block.
func (s *Service) ListResidents(block, search string) ([]*Resident, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list residents", "error", err)
		return nil, errors.NewInternalError("failed to list residents", err)
	}

	residents := make([]*Resident, 0, len(rows))
	needle := strings.ToLower(search)
	for _, row := range rows {
		if block != "" && row.Block != block {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(row.Name), needle) &&
			!strings.Contains(strings.ToLower(row.Block), needle) {
			continue
		}
		residents = append(residents, fromRow(row))
	}

	sort.SliceStable(residents, func(i, j int) bool {
		return strings.ToLower(residents[i].Name) < strings.ToLower(residents[j].Name)
	})
	return residents, nil
}

// Blocks returns the distinct block names in use, sorted, for the
// block filter dropdown.
func (s *Service) Blocks() ([]string, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list residents", "error", err)
		return nil, errors.NewInternalError("failed to list residents", err)
	}

	seen := make(map[string]bool)
	blocks := make([]string, 0)
	for _, row := range rows {
		if row.Block == "" || seen[row.Block] {
			continue
		}
		seen[row.Block] = true
		blocks = append(blocks, row.Block)
	}
	sort.Strings(blocks)
	return blocks, nil
}

// UpdateResident edits a resident's master data in place.
func (s *Service) UpdateResident(id string, dto UpdateResidentDTO) (*Resident, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("resident validation failed", "error", err, "resident_id", id)
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("resident not found for update", "error", err, "resident_id", id)
		return nil, errors.ErrResidentNotFound
	}

	row.Name = dto.Name
	row.FamilyCardNumber = dto.FamilyCardNumber
	row.WhatsApp = dto.WhatsApp
	row.Block = dto.Block
	row.UpdatedAt = s.now()

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update resident", "error", err, "resident_id", id)
		return nil, errors.NewInternalError("failed to update resident", err)
	}

	s.logger.Info("resident updated", "resident_id", id, "name", row.Name)
	return fromRow(row), nil
}

// DeleteResident removes a resident. Ledger cells and cash entries that
// reference the id are left in place; reports simply stop listing the
// resident.
func (s *Service) DeleteResident(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		s.logger.Error("resident not found for delete", "error", err, "resident_id", id)
		return errors.ErrResidentNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete resident", "error", err, "resident_id", id)
		return errors.NewInternalError("failed to delete resident", err)
	}
	s.logger.Info("resident deleted", "resident_id", id)
	return nil
}

// ExportCSV renders the master data the way the spreadsheet export
// expects it: name-sorted, with the family card number quoted so Excel
// keeps it as text.
func (s *Service) ExportCSV() ([]byte, error) {
	residents, err := s.ListResidents("", "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Nama", "No KK", "WhatsApp", "Blok", "Tanggal Terdaftar"}); err != nil {
		return nil, errors.NewInternalError("failed to write csv", err)
	}
	for _, r := range residents {
		record := []string{
			r.Name,
			"'" + r.FamilyCardNumber,
			r.WhatsApp,
			r.Block,
			r.RegisteredLabel,
		}
		if err := w.Write(record); err != nil {
			return nil, errors.NewInternalError("failed to write csv", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.NewInternalError("failed to write csv", err)
	}
	return buf.Bytes(), nil
}

// GetRef resolves the identity slice the dues service records against.
func (s *Service) GetRef(id string) (*dues.ResidentRef, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrResidentNotFound
	}
	ref := dues.ResidentRef{ID: row.ID, Name: row.Name, Block: row.Block}
	return &ref, nil
}

// ListRefs returns every resident as a recording reference.
func (s *Service) ListRefs() ([]dues.ResidentRef, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, errors.NewInternalError("failed to list residents", err)
	}
	refs := make([]dues.ResidentRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, dues.ResidentRef{ID: row.ID, Name: row.Name, Block: row.Block})
	}
	return refs, nil
}

// ExportRows returns raw rows for backup export.
func (s *Service) ExportRows() ([]*residentDatamodel.Resident, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, errors.NewInternalError("failed to list residents", err)
	}
	return rows, nil
}
