package auth

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"vaultguard/config"
	"vaultguard/models"
	"vaultguard/utils"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAccountRepo is an in-memory AccountRepository with the same atomicity
// guarantees the Mongo implementation gets from single-document updates.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account // keyed by ID
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*models.Account)}
}

func (r *memAccountRepo) GetByID(id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *memAccountRepo) GetByEmail(email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *memAccountRepo) SetOTP(id string, otp models.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with id %s not found", id)
	}
	a.OTP = &otp
	return nil
}

func (r *memAccountRepo) ClearOTP(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with id %s not found", id)
	}
	a.OTP = nil
	return nil
}

func (r *memAccountRepo) ClearOTPIfCode(id, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.OTP == nil || a.OTP.Code != code {
		return false, nil
	}
	a.OTP = nil
	return true, nil
}

func (r *memAccountRepo) UpdatePasswordHash(id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with id %s not found", id)
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *memAccountRepo) SetTwoFactorSecret(id, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with id %s not found", id)
	}
	a.TwoFactorSecret = secret
	return nil
}

func (r *memAccountRepo) EnableTwoFactor(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account with id %s not found", id)
	}
	a.TwoFactorEnabled = true
	return nil
}

// otp returns the live OTP record for inspection.
func (r *memAccountRepo) otp(id string) *models.OTPRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok && a.OTP != nil {
		cp := *a.OTP
		return &cp
	}
	return nil
}

type sentMail struct {
	to, subject, body string
}

// fakeMailer records outgoing mail and can be made to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *fakeMailer) last() *sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	cp := m.sent[len(m.sent)-1]
	return &cp
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func newTestService(t *testing.T) (*DefaultAuthService, *memAccountRepo, *fakeMailer, *fakeClock) {
	t.Helper()
	config.AppConfig.JWTSecret = "test-signing-key"
	config.AppConfig.SessionTTLSeconds = 3600

	repo := newMemAccountRepo()
	mailer := &fakeMailer{}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := &DefaultAuthService{
		Repo:            repo,
		Mailer:          mailer,
		Clock:           clock,
		OTPTTL:          10 * time.Minute,
		RequireEmailOTP: true,
	}
	return svc, repo, mailer, clock
}

func signUp(t *testing.T, svc *DefaultAuthService, email, password string) *models.Account {
	t.Helper()
	account, err := svc.SignUp(email, password)
	require.NoError(t, err)
	return account
}

func TestSignUp(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	account := signUp(t, svc, "a@x.com", "Pw1!")
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "a@x.com", account.Email)
	assert.NotEqual(t, "Pw1!", account.PasswordHash)
	assert.True(t, verifyPassword("Pw1!", account.PasswordHash))

	_, err := svc.SignUp("a@x.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignUp("", "pw")
	var validation ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLogin_RejectsUniformly(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	signUp(t, svc, "a@x.com", "Pw1!")

	// A missing account and a wrong password must be indistinguishable.
	_, errUnknown := svc.Login("nobody@x.com", "Pw1!")
	_, errWrongPw := svc.Login("a@x.com", "not-the-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_IssuesAndEmailsOTP(t *testing.T) {
	svc, repo, mailer, clock := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")

	result, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
	assert.Empty(t, result.Token)

	rec := repo.otp(account.ID)
	require.NotNil(t, rec)
	assert.Regexp(t, `^\d{6}$`, rec.Code)
	assert.Equal(t, clock.Now(), rec.IssuedAt)
	assert.Equal(t, clock.Now().Add(10*time.Minute), rec.ExpiresAt)

	mail := mailer.last()
	require.NotNil(t, mail)
	assert.Equal(t, "a@x.com", mail.to)
	assert.Equal(t, "Your One-Time Password", mail.subject)
	assert.Contains(t, mail.body, rec.Code)
}

func TestLogin_DeliveryFailureRollsBackOTP(t *testing.T) {
	svc, repo, mailer, _ := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")
	mailer.err = errors.New("smtp relay down")

	_, err := svc.Login("a@x.com", "Pw1!")

	var delivery DeliveryError
	require.ErrorAs(t, err, &delivery)
	// Issuance failed as a whole: no record may survive an unsent code.
	assert.Nil(t, repo.otp(account.ID))
}

func TestLogin_SingleFactorPathIssuesSessionDirectly(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	svc.RequireEmailOTP = false
	account := signUp(t, svc, "a@x.com", "Pw1!")

	result, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)

	accountID, err := utils.ValidateSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, accountID)
	assert.Nil(t, repo.otp(account.ID))
}

func TestVerifyOTP_SuccessIsSingleUse(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")
	_, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	code := repo.otp(account.ID).Code

	token, err := svc.VerifyOTP("a@x.com", code)
	require.NoError(t, err)

	accountID, err := utils.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, accountID)
	assert.Nil(t, repo.otp(account.ID))

	// Replaying the consumed code must fail.
	_, err = svc.VerifyOTP("a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPInvalidRequest)
}

func TestVerifyOTP_EmailIsCaseInsensitive(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")

	// The form of the address accepted at login must also verify.
	_, err := svc.Login("A@X.com", "Pw1!")
	require.NoError(t, err)
	code := repo.otp(account.ID).Code

	token, err := svc.VerifyOTP(" A@X.com ", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Nil(t, repo.otp(account.ID))
}

func TestVerifyOTP_WithoutPendingRecord(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	signUp(t, svc, "a@x.com", "Pw1!")

	_, err := svc.VerifyOTP("a@x.com", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalidRequest)

	_, err = svc.VerifyOTP("nobody@x.com", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalidRequest)

	_, err = svc.VerifyOTP("", "")
	var validation ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestVerifyOTP_ReissueSupersedesPriorCode(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")

	_, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	firstCode := repo.otp(account.ID).Code

	// Second login replaces the live record.
	_, err = svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	secondCode := repo.otp(account.ID).Code

	// The reissued code has a 1-in-10^6 chance of colliding with the first;
	// only assert supersession when they differ.
	if firstCode != secondCode {
		_, err = svc.VerifyOTP("a@x.com", firstCode)
		assert.Error(t, err)
	}

	// The superseded code is dead; the live one still works.
	token, err := svc.VerifyOTP("a@x.com", secondCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestVerifyOTP_WrongCodeKeepsRecordUntilExpiry(t *testing.T) {
	svc, repo, _, clock := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")
	_, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	code := repo.otp(account.ID).Code

	// Derive a code guaranteed to differ from the live one.
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	// Three wrong guesses all fail the same way and leave the record live.
	for i := 0; i < 3; i++ {
		_, err := svc.VerifyOTP("a@x.com", wrong)
		assert.ErrorIs(t, err, ErrOTPInvalid)
		assert.NotNil(t, repo.otp(account.ID))
	}

	// Past the window even the correct code is dead, and the record is dropped.
	clock.Advance(10*time.Minute + time.Second)
	_, err = svc.VerifyOTP("a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.Nil(t, repo.otp(account.ID))

	// With the record gone, further attempts are invalid requests.
	_, err = svc.VerifyOTP("a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPInvalidRequest)
}

func TestVerifyOTP_ExpiredCodeFailsEvenWhenCorrect(t *testing.T) {
	svc, repo, _, clock := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")
	_, err := svc.Login("a@x.com", "Pw1!")
	require.NoError(t, err)
	code := repo.otp(account.ID).Code

	clock.Advance(11 * time.Minute)

	_, err = svc.VerifyOTP("a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestGenerateOTP_Format(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code, err := generateOTP(otpLength)
		require.NoError(t, err)
		assert.True(t, otpPattern.MatchString(code))
		assert.Len(t, code, otpLength)
		seen[code] = true
	}
	// A predictable counter would collapse to a handful of values.
	assert.Greater(t, len(seen), 1)
}

func TestTwoFactorEnrollment(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	account := signUp(t, svc, "a@x.com", "Pw1!")

	setup, err := svc.SetupTwoFactor(account.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.OtpauthURL, "otpauth://totp/")

	// Confirming before setup on a fresh account fails.
	other := signUp(t, svc, "b@x.com", "Pw1!")
	err = svc.ConfirmTwoFactor(other.ID, "123456")
	assert.ErrorIs(t, err, ErrTwoFactorNotSetUp)

	// A wrong code does not enable enrollment.
	err = svc.ConfirmTwoFactor(account.ID, "000000")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmTwoFactor(account.ID, code))

	stored, err := repo.GetByID(account.ID)
	require.NoError(t, err)
	assert.True(t, stored.TwoFactorEnabled)
}
