package dues_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/dues-management/internal"
	duesDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/dues-management/internal/dues"
)

func TestDuesService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dues Service Suite")
}

// Mock ledger repository for testing
type mockLedgerRepository struct {
	cells          map[string]map[string]int64
	incrementError error
	getError       error
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{cells: make(map[string]map[string]int64)}
}

func (m *mockLedgerRepository) IncrementCell(residentID, date string, amountIDR int64) error {
	if m.incrementError != nil {
		return m.incrementError
	}
	if m.cells[residentID] == nil {
		m.cells[residentID] = make(map[string]int64)
	}
	m.cells[residentID][date] += amountIDR
	return nil
}

func (m *mockLedgerRepository) GetAll() ([]*duesDatamodel.Entry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var rows []*duesDatamodel.Entry
	for residentID, dates := range m.cells {
		for date, amount := range dates {
			rows = append(rows, &duesDatamodel.Entry{
				ResidentID: residentID,
				EntryDate:  date,
				AmountIDR:  amount,
			})
		}
	}
	return rows, nil
}

func (m *mockLedgerRepository) GetByResident(residentID string) ([]*duesDatamodel.Entry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var rows []*duesDatamodel.Entry
	for date, amount := range m.cells[residentID] {
		rows = append(rows, &duesDatamodel.Entry{
			ResidentID: residentID,
			EntryDate:  date,
			AmountIDR:  amount,
		})
	}
	return rows, nil
}

// Mock resident source for testing
type mockResidentSource struct {
	refs      map[string]dues.ResidentRef
	listError error
}

func newMockResidentSource(refs ...dues.ResidentRef) *mockResidentSource {
	m := &mockResidentSource{refs: make(map[string]dues.ResidentRef)}
	for _, ref := range refs {
		m.refs[ref.ID] = ref
	}
	return m
}

func (m *mockResidentSource) GetRef(id string) (*dues.ResidentRef, error) {
	ref, ok := m.refs[id]
	if !ok {
		return nil, internal.ErrResidentNotFound
	}
	return &ref, nil
}

func (m *mockResidentSource) ListRefs() ([]dues.ResidentRef, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	refs := make([]dues.ResidentRef, 0, len(m.refs))
	for _, ref := range m.refs {
		refs = append(refs, ref)
	}
	return refs, nil
}

type fixedRate int64

func (r fixedRate) DailyRateIDR() int64 { return int64(r) }

// Mock cash recorder for testing
type cashEntry struct {
	displayDate    string
	description    string
	subDescription string
	amountIDR      int64
}

type mockCashRecorder struct {
	entries     []cashEntry
	appendError error
	nextID      int
}

func (m *mockCashRecorder) AppendIncome(displayDate, description, subDescription string, amountIDR int64) (string, error) {
	if m.appendError != nil {
		return "", m.appendError
	}
	m.entries = append(m.entries, cashEntry{displayDate, description, subDescription, amountIDR})
	m.nextID++
	return fmt.Sprintf("tx-%d", m.nextID), nil
}

var _ = Describe("DuesService", func() {
	var (
		service   *dues.Service
		mockRepo  *mockLedgerRepository
		residents *mockResidentSource
		cash      *mockCashRecorder
		logger    *slog.Logger
		today     time.Time
	)

	BeforeEach(func() {
		mockRepo = newMockLedgerRepository()
		residents = newMockResidentSource(
			dues.ResidentRef{ID: "w1", Name: "Andi", Block: "A1"},
			dues.ResidentRef{ID: "w2", Name: "Budi", Block: "A2"},
		)
		cash = &mockCashRecorder{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		today = time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)
		service = dues.NewService(mockRepo, residents, fixedRate(500), cash, nil, logger).
			WithClock(func() time.Time { return today })
	})

	Describe("RecordDaySet", func() {
		It("spreads the floor of total over days and drops the remainder", func() {
			receipt, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{1, 2, 3},
				AmountIDR:  1000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeTrue())
			Expect(receipt.CellsWritten).To(Equal(3))
			Expect(receipt.LedgerIDR).To(Equal(int64(999)))
			Expect(receipt.TotalIDR).To(Equal(int64(1000)))

			Expect(mockRepo.cells["w1"]["2026-09-01"]).To(Equal(int64(333)))
			Expect(mockRepo.cells["w1"]["2026-09-02"]).To(Equal(int64(333)))
			Expect(mockRepo.cells["w1"]["2026-09-03"]).To(Equal(int64(333)))
		})

		It("appends exactly one cash entry for the full amount", func() {
			_, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{1, 2, 3},
				AmountIDR:  1000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(cash.entries).To(HaveLen(1))
			Expect(cash.entries[0].amountIDR).To(Equal(int64(1000)))
			Expect(cash.entries[0].description).To(Equal("Iuran: Andi"))
			Expect(cash.entries[0].subDescription).To(Equal("September 2026"))
			Expect(cash.entries[0].displayDate).To(Equal("15 Sep 2026"))
		})

		It("merge-adds repeated payments into the same cells", func() {
			dto := dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{1},
				AmountIDR:  500,
			}
			_, err := service.RecordDaySet(dto)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RecordDaySet(dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(mockRepo.cells["w1"]["2026-09-01"]).To(Equal(int64(1000)))
			Expect(mockRepo.cells["w1"]).To(HaveLen(1))
		})

		It("silently skips an unknown resident", func() {
			receipt, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "ghost",
				Month:      9,
				Year:       2026,
				Days:       []int{1},
				AmountIDR:  500,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeFalse())
			Expect(mockRepo.cells).To(BeEmpty())
			Expect(cash.entries).To(BeEmpty())
		})

		It("silently skips an empty day set", func() {
			receipt, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{},
				AmountIDR:  500,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeFalse())
			Expect(mockRepo.cells).To(BeEmpty())
			Expect(cash.entries).To(BeEmpty())
		})

		It("rejects a non-positive amount", func() {
			_, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{1},
				AmountIDR:  0,
			})
			Expect(err).To(HaveOccurred())
			Expect(cash.entries).To(BeEmpty())
		})

		It("rejects a day outside the month", func() {
			_, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      2,
				Year:       2026,
				Days:       []int{30},
				AmountIDR:  500,
			})
			Expect(err).To(HaveOccurred())
		})

		It("does not append cash when the store fails", func() {
			mockRepo.incrementError = errors.New("disk full")
			_, err := service.RecordDaySet(dues.RecordDaySetDTO{
				ResidentID: "w1",
				Month:      9,
				Year:       2026,
				Days:       []int{1},
				AmountIDR:  500,
			})
			Expect(err).To(HaveOccurred())
			Expect(cash.entries).To(BeEmpty())
		})
	})

	Describe("RecordPackage", func() {
		It("floors across months then across each month's true day count", func() {
			// 31000 over 2 months: 15500 per month.
			// October has 31 days: 500/day. November has 30 days: 516/day.
			receipt, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID: "w1",
				StartMonth: 10,
				StartYear:  2026,
				MonthCount: 2,
				AmountIDR:  31000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeTrue())
			Expect(receipt.CellsWritten).To(Equal(61))
			Expect(mockRepo.cells["w1"]["2026-10-01"]).To(Equal(int64(500)))
			Expect(mockRepo.cells["w1"]["2026-10-31"]).To(Equal(int64(500)))
			Expect(mockRepo.cells["w1"]["2026-11-01"]).To(Equal(int64(516)))
			Expect(mockRepo.cells["w1"]["2026-11-30"]).To(Equal(int64(516)))
			Expect(receipt.LedgerIDR).To(Equal(int64(31*500 + 30*516)))
		})

		It("rolls December over into January of the next year", func() {
			_, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID: "w1",
				StartMonth: 12,
				StartYear:  2026,
				MonthCount: 2,
				AmountIDR:  62000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.cells["w1"]["2026-12-01"]).To(Equal(int64(1000)))
			Expect(mockRepo.cells["w1"]["2027-01-01"]).To(Equal(int64(1000)))
			Expect(mockRepo.cells["w1"]["2027-01-31"]).To(Equal(int64(1000)))
		})

		It("pins the monthly share to day 01 when requested", func() {
			receipt, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID:  "w1",
				StartMonth:  10,
				StartYear:   2026,
				MonthCount:  3,
				AmountIDR:   45000,
				PinFirstDay: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.CellsWritten).To(Equal(3))
			Expect(mockRepo.cells["w1"]["2026-10-01"]).To(Equal(int64(15000)))
			Expect(mockRepo.cells["w1"]["2026-11-01"]).To(Equal(int64(15000)))
			Expect(mockRepo.cells["w1"]["2026-12-01"]).To(Equal(int64(15000)))
			Expect(mockRepo.cells["w1"]).To(HaveLen(3))
		})

		It("uses 29 days for a leap-year February", func() {
			receipt, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID: "w1",
				StartMonth: 2,
				StartYear:  2024,
				MonthCount: 1,
				AmountIDR:  3000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.CellsWritten).To(Equal(29))
			Expect(mockRepo.cells["w1"]["2024-02-29"]).To(Equal(int64(103)))
			Expect(receipt.LedgerIDR).To(Equal(int64(29 * 103)))
		})

		It("labels a multi-month cash entry with the covered range", func() {
			_, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID: "w1",
				StartMonth: 12,
				StartYear:  2026,
				MonthCount: 2,
				AmountIDR:  62000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(cash.entries).To(HaveLen(1))
			Expect(cash.entries[0].subDescription).To(Equal("Desember 2026 - Januari 2027"))
			Expect(cash.entries[0].amountIDR).To(Equal(int64(62000)))
		})

		It("silently skips an unknown resident", func() {
			receipt, err := service.RecordPackage(dues.RecordPackageDTO{
				ResidentID: "ghost",
				StartMonth: 10,
				StartYear:  2026,
				MonthCount: 1,
				AmountIDR:  500,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeFalse())
			Expect(mockRepo.cells).To(BeEmpty())
			Expect(cash.entries).To(BeEmpty())
		})
	})

	Describe("RecordFreeForm", func() {
		It("appends a cash entry without touching the daily ledger", func() {
			receipt, err := service.RecordFreeForm(dues.RecordFreeFormDTO{
				ResidentID:  "w2",
				AmountIDR:   25000,
				Description: "Pelunasan Tunggakan YTD",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeTrue())
			Expect(receipt.CellsWritten).To(Equal(0))
			Expect(mockRepo.cells).To(BeEmpty())
			Expect(cash.entries).To(HaveLen(1))
			Expect(cash.entries[0].description).To(Equal("Iuran: Budi"))
			Expect(cash.entries[0].subDescription).To(Equal("Pelunasan Tunggakan YTD"))
		})

		It("validates a positive amount with an untyped nil error", func() {
			var err error = dues.RecordFreeFormDTO{ResidentID: "w1", AmountIDR: 500}.Validate()
			Expect(err == nil).To(BeTrue(), "a typed nil inside the error interface would reject every valid payment")
		})

		It("rejects a non-positive amount", func() {
			_, err := service.RecordFreeForm(dues.RecordFreeFormDTO{
				ResidentID: "w1",
				AmountIDR:  0,
			})
			Expect(err).To(HaveOccurred())
			Expect(cash.entries).To(BeEmpty())
		})

		It("silently skips an unknown resident", func() {
			receipt, err := service.RecordFreeForm(dues.RecordFreeFormDTO{
				ResidentID: "ghost",
				AmountIDR:  25000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Recorded).To(BeFalse())
			Expect(cash.entries).To(BeEmpty())
		})
	})

	Describe("MonthlyReport", func() {
		It("splits residents into arrears and settled", func() {
			// August 2026 obligation: 31 * 500 = 15500.
			Expect(mockRepo.IncrementCell("w1", "2026-08-01", 15500)).To(Succeed())
			Expect(mockRepo.IncrementCell("w2", "2026-08-01", 4000)).To(Succeed())

			report, err := service.MonthlyReport(2026, time.August)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Settled).To(HaveLen(1))
			Expect(report.Settled[0].Name).To(Equal("Andi"))
			Expect(report.InArrears).To(HaveLen(1))
			Expect(report.InArrears[0].Name).To(Equal("Budi"))
			Expect(report.InArrears[0].OutstandingIDR).To(Equal(int64(11500)))
		})

		It("rejects an out-of-range month", func() {
			_, err := service.MonthlyReport(2026, time.Month(13))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResidentYearToDate", func() {
		It("computes the quick-settle amount from the ceiling day count", func() {
			// 2026-09-15T10:00 UTC is 257 days plus 10h: 258 ceiling days.
			Expect(mockRepo.IncrementCell("w1", "2026-03-01", 4000)).To(Succeed())

			summary, err := service.ResidentYearToDate("w1")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.ObligationIDR).To(Equal(int64(258 * 500)))
			Expect(summary.OutstandingIDR).To(Equal(int64(258*500 - 4000)))
		})

		It("returns not found for an unknown resident", func() {
			_, err := service.ResidentYearToDate("ghost")
			Expect(err).To(HaveOccurred())
		})
	})
})
