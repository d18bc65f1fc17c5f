package settings_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	settingsDatamodel "github.com/frahmantamala/dues-management/internal/core/datamodel/settings"
	"github.com/frahmantamala/dues-management/internal/settings"
)

func TestSettingsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Settings Service Suite")
}

// Mock repository for testing
type mockSettingsRepository struct {
	rows        map[string]*settingsDatamodel.Setting
	upsertError error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{rows: make(map[string]*settingsDatamodel.Setting)}
}

func (m *mockSettingsRepository) Get(key string) (*settingsDatamodel.Setting, error) {
	row, ok := m.rows[key]
	if !ok {
		return nil, errors.New("record not found")
	}
	return row, nil
}

func (m *mockSettingsRepository) GetAll() ([]*settingsDatamodel.Setting, error) {
	rows := make([]*settingsDatamodel.Setting, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *mockSettingsRepository) Upsert(row *settingsDatamodel.Setting) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	m.rows[row.Key] = row
	return nil
}

var _ = Describe("SettingsService", func() {
	var (
		service  *settings.Service
		mockRepo *mockSettingsRepository
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockSettingsRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = settings.NewService(mockRepo, 500, logger)
	})

	Describe("DailyRateIDR", func() {
		It("falls back to the default when no row exists", func() {
			Expect(service.DailyRateIDR()).To(Equal(int64(500)))
		})

		It("returns the stored rate", func() {
			Expect(service.SetDailyRate(1000)).To(Succeed())
			Expect(service.DailyRateIDR()).To(Equal(int64(1000)))
		})

		It("falls back to the default for a malformed row", func() {
			mockRepo.rows[settings.KeyDailyRate] = &settingsDatamodel.Setting{
				Key:   settings.KeyDailyRate,
				Value: "lima ratus",
			}
			Expect(service.DailyRateIDR()).To(Equal(int64(500)))
		})

		It("rejects a non-positive rate", func() {
			Expect(service.SetDailyRate(0)).To(HaveOccurred())
			Expect(service.SetDailyRate(-5)).To(HaveOccurred())
		})
	})

	Describe("Set and Get", func() {
		It("round-trips arbitrary keys", func() {
			Expect(service.Set(settings.KeyOrgName, "RT 05 Griya Asri")).To(Succeed())

			value, err := service.Get(settings.KeyOrgName)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("RT 05 Griya Asri"))
		})

		It("rejects an empty key", func() {
			Expect(service.Set("", "x")).To(HaveOccurred())
		})

		It("returns not found for a missing key", func() {
			_, err := service.Get("missing")
			Expect(err).To(HaveOccurred())
		})
	})
})
