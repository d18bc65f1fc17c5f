package auth_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/dues-management/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// Mock repository for testing
type mockUserRepo struct {
	passwordHash string
	userID       string
	lookupError  error
	users        map[int64]*auth.User
}

func (m *mockUserRepo) GetPasswordForUsername(email string) (string, string, error) {
	if m.lookupError != nil {
		return "", "", m.lookupError
	}
	return m.passwordHash, m.userID, nil
}

func (m *mockUserRepo) GetUserWithPermissions(userID int64) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	var (
		service *auth.Service
		repo    *mockUserRepo
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-rt"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		repo = &mockUserRepo{
			passwordHash: string(hash),
			userID:       "1",
			users: map[int64]*auth.User{
				1: {ID: 1, Email: "bendahara@rt05.id", Permissions: []string{auth.PermTreasurer}},
			},
		}
		tokenGen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret")
		service = auth.NewService(repo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns both tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "bendahara@rt05.id", Password: "rahasia-rt"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "bendahara@rt05.id", Password: "salah"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email without leaking the reason", func() {
			repo.lookupError = errors.New("user not found")
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@rt05.id", Password: "rahasia-rt"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects missing fields before touching the repository", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: "rahasia-rt"})
			Expect(err).To(HaveOccurred())
			_, ok := err.(auth.ValidationError)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("Token round trip", func() {
		It("validates an access token it just issued", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "bendahara@rt05.id", Password: "rahasia-rt"})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("refreshes into a fresh token pair", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "bendahara@rt05.id", Password: "rahasia-rt"})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
			Expect(refreshed.RefreshToken).NotTo(BeEmpty())
		})
	})

	Describe("GetUserWithPermissions", func() {
		It("returns the user with granted permissions", func() {
			u, err := service.GetUserWithPermissions(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsTreasurer()).To(BeTrue())
			Expect(u.IsAdmin()).To(BeFalse())
		})
	})
})

var _ = Describe("PermissionChecker", func() {
	checker := auth.NewPermissionChecker()

	It("lets the treasurer record dues and manage cash", func() {
		perms := []string{auth.PermTreasurer}
		Expect(checker.CanRecordDues(perms)).To(BeTrue())
		Expect(checker.CanManageCash(perms)).To(BeTrue())
		Expect(checker.CanManageResidents(perms)).To(BeFalse())
	})

	It("lets admin do everything", func() {
		perms := []string{auth.PermAdmin}
		Expect(checker.CanRecordDues(perms)).To(BeTrue())
		Expect(checker.CanManageResidents(perms)).To(BeTrue())
		Expect(checker.CanManageSettings(perms)).To(BeTrue())
		Expect(checker.CanManageBackup(perms)).To(BeTrue())
	})

	It("treats a plain collector as a report viewer", func() {
		perms := []string{auth.PermRecordDues}
		Expect(checker.CanViewReports(perms)).To(BeTrue())
		Expect(checker.CanManageBackup(perms)).To(BeFalse())
	})
})
