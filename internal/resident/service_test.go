package resident_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	residentDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/resident"
	"github.com/frahmantamala/dues-management/internal/resident"
)

func TestResidentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resident Service Suite")
}

// Mock repository for testing
type mockResidentRepository struct {
	rows        map[string]*residentDatamodel.Resident
	createError error
	getError    error
	deleteError error
}

func newMockResidentRepository() *mockResidentRepository {
	return &mockResidentRepository{rows: make(map[string]*residentDatamodel.Resident)}
}

func (m *mockResidentRepository) Create(row *residentDatamodel.Resident) error {
	if m.createError != nil {
		return m.createError
	}
	m.rows[row.ID] = row
	return nil
}

func (m *mockResidentRepository) GetByID(id string) (*residentDatamodel.Resident, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return row, nil
}

func (m *mockResidentRepository) GetAll() ([]*residentDatamodel.Resident, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	rows := make([]*residentDatamodel.Resident, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *mockResidentRepository) Update(row *residentDatamodel.Resident) error {
	m.rows[row.ID] = row
	return nil
}

func (m *mockResidentRepository) Delete(id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.rows, id)
	return nil
}

var _ = Describe("ResidentService", func() {
	var (
		service  *resident.Service
		mockRepo *mockResidentRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockResidentRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = resident.NewService(mockRepo, logger).
			WithClock(func() time.Time {
				return time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)
			})
	})

	Describe("CreateResident", func() {
		It("registers a resident with a generated id", func() {
			created, err := service.CreateResident(resident.CreateResidentDTO{
				Name:             "Andi Wijaya",
				FamilyCardNumber: "3201234567890001",
				WhatsApp:         "081234567890",
				Block:            "A1",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.RegisteredLabel).To(Equal("15 Sep 2026"))
			Expect(mockRepo.rows).To(HaveLen(1))
		})

		It("rejects an empty name", func() {
			_, err := service.CreateResident(resident.CreateResidentDTO{Name: ""})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.rows).To(BeEmpty())
		})
	})

	Describe("ListResidents", func() {
		BeforeEach(func() {
			for _, r := range []struct{ id, name, block string }{
				{"w1", "Citra", "B1"},
				{"w2", "andi", "A1"},
				{"w3", "Budi", "A1"},
			} {
				mockRepo.rows[r.id] = &residentDatamodel.Resident{ID: r.id, Name: r.name, Block: r.block}
			}
		})

		It("sorts by name case-insensitively", func() {
			list, err := service.ListResidents("", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Name).To(Equal("andi"))
			Expect(list[1].Name).To(Equal("Budi"))
			Expect(list[2].Name).To(Equal("Citra"))
		})

		It("filters by block", func() {
			list, err := service.ListResidents("A1", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			for _, r := range list {
				Expect(r.Block).To(Equal("A1"))
			}
		})

		It("searches across name and block", func() {
			list, err := service.ListResidents("", "cit")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Citra"))

			list, err = service.ListResidents("", "b1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Block).To(Equal("B1"))
		})
	})

	Describe("Blocks", func() {
		It("returns distinct sorted block names and skips blanks", func() {
			for _, r := range []struct{ id, block string }{
				{"w1", "B1"},
				{"w2", "A1"},
				{"w3", "A1"},
				{"w4", ""},
			} {
				mockRepo.rows[r.id] = &residentDatamodel.Resident{ID: r.id, Name: "X", Block: r.block}
			}

			blocks, err := service.Blocks()
			Expect(err).NotTo(HaveOccurred())
			Expect(blocks).To(Equal([]string{"A1", "B1"}))
		})
	})

	Describe("UpdateResident", func() {
		It("edits master data in place", func() {
			mockRepo.rows["w1"] = &residentDatamodel.Resident{ID: "w1", Name: "Andi", Block: "A1"}

			updated, err := service.UpdateResident("w1", resident.UpdateResidentDTO{
				Name:  "Andi Wijaya",
				Block: "A2",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Andi Wijaya"))
			Expect(mockRepo.rows["w1"].Block).To(Equal("A2"))
		})

		It("returns not found for an unknown id", func() {
			_, err := service.UpdateResident("ghost", resident.UpdateResidentDTO{Name: "X"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteResident", func() {
		It("removes only the resident row", func() {
			mockRepo.rows["w1"] = &residentDatamodel.Resident{ID: "w1", Name: "Andi"}

			Expect(service.DeleteResident("w1")).To(Succeed())
			Expect(mockRepo.rows).To(BeEmpty())
		})

		It("returns not found for an unknown id", func() {
			Expect(service.DeleteResident("ghost")).To(HaveOccurred())
		})
	})

	Describe("ExportCSV", func() {
		It("renders name-sorted rows with the family card number quoted", func() {
			registered := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
			mockRepo.rows["w1"] = &residentDatamodel.Resident{
				ID: "w1", Name: "Budi", FamilyCardNumber: "3201", Block: "A2", RegisteredAt: registered,
			}
			mockRepo.rows["w2"] = &residentDatamodel.Resident{
				ID: "w2", Name: "Andi", FamilyCardNumber: "3202", Block: "A1", RegisteredAt: registered,
			}

			data, err := service.ExportCSV()
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(Equal("Nama,No KK,WhatsApp,Blok,Tanggal Terdaftar"))
			Expect(lines[1]).To(ContainSubstring("Andi"))
			Expect(lines[1]).To(ContainSubstring("'3202"))
			Expect(lines[2]).To(ContainSubstring("Budi"))
		})
	})

	Describe("GetRef", func() {
		It("resolves the recording reference", func() {
			mockRepo.rows["w1"] = &residentDatamodel.Resident{ID: "w1", Name: "Andi", Block: "A1"}

			ref, err := service.GetRef("w1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ref.Name).To(Equal("Andi"))
			Expect(ref.Block).To(Equal("A1"))
		})

		It("maps a missing row to the resident not found error", func() {
			_, err := service.GetRef("ghost")
			Expect(err).To(HaveOccurred())
		})
	})
})
