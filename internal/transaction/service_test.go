package transaction_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	txDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/dues-management/internal/transaction"
)

func TestTransactionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transaction Service Suite")
}

// Mock repository for testing
type mockTransactionRepository struct {
	rows        []*txDatamodel.Transaction
	createError error
	getError    error
}

func (m *mockTransactionRepository) Create(row *txDatamodel.Transaction) error {
	if m.createError != nil {
		return m.createError
	}
	m.rows = append([]*txDatamodel.Transaction{row}, m.rows...)
	return nil
}

func (m *mockTransactionRepository) GetAll() ([]*txDatamodel.Transaction, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.rows, nil
}

var _ = Describe("TransactionService", func() {
	var (
		service  *transaction.Service
		mockRepo *mockTransactionRepository
		logger   *slog.Logger
		clock    time.Time
	)

	BeforeEach(func() {
		mockRepo = &mockTransactionRepository{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		clock = time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)
		service = transaction.NewService(mockRepo, nil, logger).
			WithClock(func() time.Time { return clock })
	})

	Describe("Append", func() {
		It("stores an immutable entry with a millisecond timestamp", func() {
			entry, err := service.Append(transaction.CreateTransactionDTO{
				Description: "Beli lampu taman",
				Category:    transaction.CategoryExpense,
				AmountIDR:   75000,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).NotTo(BeEmpty())
			Expect(entry.TimestampMs).To(Equal(clock.UnixMilli()))
			Expect(entry.DisplayDate).To(Equal("15 Sep 2026"))
			Expect(mockRepo.rows).To(HaveLen(1))
		})

		It("rejects an unknown category", func() {
			_, err := service.Append(transaction.CreateTransactionDTO{
				Description: "x",
				Category:    "transfer",
				AmountIDR:   100,
			})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.rows).To(BeEmpty())
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Append(transaction.CreateTransactionDTO{
				Description: "x",
				Category:    transaction.CategoryIncome,
				AmountIDR:   0,
			})
			Expect(err).To(HaveOccurred())
		})

		It("surfaces store failures", func() {
			mockRepo.createError = errors.New("disk full")
			_, err := service.Append(transaction.CreateTransactionDTO{
				Description: "x",
				Category:    transaction.CategoryIncome,
				AmountIDR:   100,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AppendIncome", func() {
		It("keeps the caller's display date", func() {
			id, err := service.AppendIncome("1 Agu 2026", "Iuran: Andi", "Agustus 2026", 15500)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())
			Expect(mockRepo.rows[0].DisplayDate).To(Equal("1 Agu 2026"))
			Expect(mockRepo.rows[0].Category).To(Equal(transaction.CategoryIncome))
		})
	})

	Describe("Report", func() {
		It("returns newest-first lines with running balances and totals", func() {
			appendAt := func(desc, category string, amount int64, at time.Time) {
				clock = at
				_, err := service.Append(transaction.CreateTransactionDTO{
					Description: desc,
					Category:    category,
					AmountIDR:   amount,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			base := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
			appendAt("iuran", transaction.CategoryIncome, 10000, base)
			appendAt("iuran", transaction.CategoryIncome, 5000, base.Add(time.Hour))
			appendAt("lampu", transaction.CategoryExpense, 2000, base.Add(2*time.Hour))

			lines, totals, err := service.Report()
			Expect(err).NotTo(HaveOccurred())

			Expect(totals.BalanceIDR).To(Equal(int64(13000)))
			Expect(lines).To(HaveLen(3))
			Expect(lines[0].Description).To(Equal("lampu"))
			Expect(lines[0].BalanceIDR).To(Equal(int64(13000)))
			Expect(lines[2].BalanceIDR).To(Equal(int64(10000)))
		})
	})

	Describe("MonthReport", func() {
		It("restarts the running balance at zero inside the filter", func() {
			appendAt := func(desc, category string, amount int64, at time.Time) {
				clock = at
				_, err := service.Append(transaction.CreateTransactionDTO{
					Description: desc,
					Category:    category,
					AmountIDR:   amount,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			appendAt("agustus", transaction.CategoryIncome, 99999, time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC))
			appendAt("september", transaction.CategoryIncome, 5000, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC))
			appendAt("september", transaction.CategoryExpense, 1000, time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC))

			lines, totals, err := service.MonthReport(2026, time.September)
			Expect(err).NotTo(HaveOccurred())

			Expect(lines).To(HaveLen(2))
			Expect(totals.BalanceIDR).To(Equal(int64(4000)))
			Expect(lines[0].BalanceIDR).To(Equal(int64(4000)))
			Expect(lines[1].BalanceIDR).To(Equal(int64(5000)), "August income must not leak into the filtered balance")
		})

		It("rejects an out-of-range month", func() {
			_, _, err := service.MonthReport(2026, time.Month(0))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MonthlySummary", func() {
		It("buckets the year into twelve months and ignores other years", func() {
			appendAt := func(category string, amount int64, at time.Time) {
				clock = at
				_, err := service.Append(transaction.CreateTransactionDTO{
					Description: "iuran",
					Category:    category,
					AmountIDR:   amount,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			appendAt(transaction.CategoryIncome, 10000, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
			appendAt(transaction.CategoryExpense, 3000, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC))
			appendAt(transaction.CategoryIncome, 7000, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))
			appendAt(transaction.CategoryIncome, 99999, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))

			months, err := service.MonthlySummary(2026)
			Expect(err).NotTo(HaveOccurred())

			Expect(months).To(HaveLen(12))
			Expect(months[2].Month).To(Equal(3))
			Expect(months[2].IncomeIDR).To(Equal(int64(10000)))
			Expect(months[2].ExpenseIDR).To(Equal(int64(3000)))
			Expect(months[7].IncomeIDR).To(Equal(int64(7000)))
			Expect(months[0].IncomeIDR).To(BeZero())
		})
	})

	Describe("Recent", func() {
		It("caps the line count but keeps full-ledger balances", func() {
			appendAt := func(amount int64, at time.Time) {
				clock = at
				_, err := service.Append(transaction.CreateTransactionDTO{
					Description: "iuran",
					Category:    transaction.CategoryIncome,
					AmountIDR:   amount,
				})
				Expect(err).NotTo(HaveOccurred())
			}
			base := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
			for i := int64(1); i <= 5; i++ {
				appendAt(1000, base.Add(time.Duration(i)*time.Hour))
			}

			lines, err := service.Recent(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(2))
			Expect(lines[0].BalanceIDR).To(Equal(int64(5000)))
			Expect(lines[1].BalanceIDR).To(Equal(int64(4000)))
		})
	})
})
