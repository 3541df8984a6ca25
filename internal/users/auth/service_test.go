// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/sec"
	"github.com/jmasanja/elimu/internal/users/auth"
)

// # In-Memory Fakes

// fakeUserRepository is a mutex-guarded in-memory UserRepository.
type fakeUserRepository struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.byEmail[user.Email]; exists {
		return apperr.Conflict("User already exists")
	}
	copied := *user
	repo.byID[user.ID] = &copied
	repo.byEmail[user.Email] = &copied
	return nil
}

func (repo *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.byID[user.ID] = &copied
	repo.byEmail[user.Email] = &copied
	return nil
}

// fakeTokenRepository is a mutex-guarded in-memory refresh-token ledger.
//
// RevokeIfActive performs its check-and-set under the lock, mirroring the
// row-level atomicity the PostgreSQL implementation gets from a conditional
// UPDATE.
type fakeTokenRepository struct {
	mu      sync.Mutex
	records map[string]*auth.RefreshTokenRecord
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{records: make(map[string]*auth.RefreshTokenRecord)}
}

func (repo *fakeTokenRepository) Create(_ context.Context, record *auth.RefreshTokenRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *record
	repo.records[record.TokenHash] = &copied
	return nil
}

func (repo *fakeTokenRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.RefreshTokenRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if record, ok := repo.records[tokenHash]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, apperr.NotFound("Refresh token")
}

func (repo *fakeTokenRepository) RevokeIfActive(_ context.Context, tokenHash string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	record, ok := repo.records[tokenHash]
	if !ok || record.Revoked || !record.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	record.Revoked = true
	return true, nil
}

func (repo *fakeTokenRepository) Revoke(_ context.Context, tokenHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if record, ok := repo.records[tokenHash]; ok {
		record.Revoked = true
	}
	return nil
}

func (repo *fakeTokenRepository) RevokeAllForOwner(_ context.Context, ownerID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, record := range repo.records {
		if record.OwnerID == ownerID {
			record.Revoked = true
		}
	}
	return nil
}

func (repo *fakeTokenRepository) DeleteExpiredRevoked(_ context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for hash, record := range repo.records {
		if record.Revoked && !record.ExpiresAt.After(time.Now()) {
			delete(repo.records, hash)
		}
	}
	return nil
}

// rowTokenRepository is an append-only, row-per-insert refresh-token ledger.
//
// Unlike fakeTokenRepository it never collapses records sharing a token hash:
// every Create appends a row, and Create rejects a duplicate hash the way the
// unique tokenhash index does in PostgreSQL. Conditional revocation reports
// the number of rows it actually touched.
type rowTokenRepository struct {
	mu   sync.Mutex
	rows []*auth.RefreshTokenRecord
}

func newRowTokenRepository() *rowTokenRepository {
	return &rowTokenRepository{}
}

func (repo *rowTokenRepository) Create(_ context.Context, record *auth.RefreshTokenRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.TokenHash == record.TokenHash {
			return apperr.Conflict("Refresh token already exists")
		}
	}
	copied := *record
	repo.rows = append(repo.rows, &copied)
	return nil
}

func (repo *rowTokenRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.RefreshTokenRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.TokenHash == tokenHash {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Refresh token")
}

func (repo *rowTokenRepository) RevokeIfActive(_ context.Context, tokenHash string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	affected := 0
	for _, row := range repo.rows {
		if row.TokenHash == tokenHash && !row.Revoked && row.ExpiresAt.After(time.Now()) {
			row.Revoked = true
			affected++
		}
	}
	return affected > 0, nil
}

func (repo *rowTokenRepository) Revoke(_ context.Context, tokenHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.TokenHash == tokenHash {
			row.Revoked = true
		}
	}
	return nil
}

func (repo *rowTokenRepository) RevokeAllForOwner(_ context.Context, ownerID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.OwnerID == ownerID {
			row.Revoked = true
		}
	}
	return nil
}

func (repo *rowTokenRepository) DeleteExpiredRevoked(_ context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	kept := repo.rows[:0]
	for _, row := range repo.rows {
		if !(row.Revoked && !row.ExpiresAt.After(time.Now())) {
			kept = append(kept, row)
		}
	}
	repo.rows = kept
	return nil
}

func (repo *rowTokenRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.rows)
}

// # Test Fixture

type serviceFixture struct {
	service   *auth.Service
	users     *fakeUserRepository
	tokens    *fakeTokenRepository
	issuer    *sec.TokenService
	ownEmail  string
	ownPass   string
	ownUserID string
}

// newServiceFixture builds a Service over in-memory repositories with one
// pre-registered account.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	issuer, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "elimu.co.tz")
	require.NoError(t, err)

	users := newFakeUserRepository()
	tokens := newFakeTokenRepository()
	service := auth.NewService(users, tokens, issuer)

	fixture := &serviceFixture{
		service:  service,
		users:    users,
		tokens:   tokens,
		issuer:   issuer,
		ownEmail: "amina@example.co.tz",
		ownPass:  "password-123",
	}

	pair, user, err := service.Register(context.Background(), auth.RegisterInput{
		Email:     fixture.ownEmail,
		Password:  fixture.ownPass,
		FirstName: "Amina",
		LastName:  "Mushi",
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	fixture.ownUserID = user.ID

	return fixture
}

// # Login & Registration

/*
TestService_Login_ReturnsVerifiableClaims verifies that a successful login
returns an access token whose claims decode to the correct subject, and a
refresh token recorded in the ledger under the same owner.
*/
func TestService_Login_ReturnsVerifiableClaims(t *testing.T) {
	fixture := newServiceFixture(t)

	pair, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)

	// 1. Wire shape
	assert.Equal(t, 3600, pair.ExpiresIn)
	assert.Equal(t, "Bearer", pair.TokenType)

	// 2. Access token decodes to the registered identity
	claims, err := fixture.issuer.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fixture.ownUserID, claims.Subject)
	assert.Equal(t, fixture.ownEmail, claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "Amina", claims.FirstName)

	// 3. Refresh token is persisted with a matching owner
	record, err := fixture.tokens.FindByTokenHash(context.Background(), sec.HashToken(pair.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, fixture.ownUserID, record.OwnerID)
	assert.False(t, record.Revoked)
}

/*
TestService_Login_UniformCredentialFailure verifies that an unknown email and
a wrong password for a known email fail identically, so a caller cannot
enumerate registered accounts.
*/
func TestService_Login_UniformCredentialFailure(t *testing.T) {
	fixture := newServiceFixture(t)

	_, unknownErr := fixture.service.Login(context.Background(), "nobody@example.co.tz", "whatever-123")
	_, wrongPassErr := fixture.service.Login(context.Background(), fixture.ownEmail, "wrong-password")

	unknownApp := apperr.As(unknownErr)
	wrongPassApp := apperr.As(wrongPassErr)
	require.NotNil(t, unknownApp)
	require.NotNil(t, wrongPassApp)

	assert.Equal(t, "UNAUTHORIZED", unknownApp.Code)
	assert.Equal(t, unknownApp.Code, wrongPassApp.Code)
	assert.Equal(t, unknownApp.Message, wrongPassApp.Message)
	assert.Equal(t, unknownApp.HTTPStatus, wrongPassApp.HTTPStatus)
}

/*
TestService_Register_DuplicateEmailConflicts verifies that registering the
same email twice succeeds once and then fails with a Conflict.
*/
func TestService_Register_DuplicateEmailConflicts(t *testing.T) {
	fixture := newServiceFixture(t)

	_, _, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     fixture.ownEmail,
		Password:  "another-password",
		FirstName: "Impostor",
		LastName:  "Account",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
}

/*
TestService_Register_NormalizesEmail verifies that registration lowercases the
email, and that login with a differently-cased email still resolves it.
*/
func TestService_Register_NormalizesEmail(t *testing.T) {
	fixture := newServiceFixture(t)

	_, user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "  Juma.KIMARO@Example.co.tz ",
		Password:  "password-456",
		FirstName: "Juma",
		LastName:  "Kimaro",
	})
	require.NoError(t, err)
	assert.Equal(t, "juma.kimaro@example.co.tz", user.Email)

	_, err = fixture.service.Login(context.Background(), "JUMA.kimaro@example.co.TZ", "password-456")
	assert.NoError(t, err)
}

/*
TestService_Register_DefaultsToStudentRole verifies that an invalid or empty
requested role falls back to the student role.
*/
func TestService_Register_DefaultsToStudentRole(t *testing.T) {
	fixture := newServiceFixture(t)

	_, user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "fresh@example.co.tz",
		Password:  "password-789",
		FirstName: "Neema",
		LastName:  "Swai",
		Role:      sec.UserRole("superuser"),
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleStudent, user.Role)
}

// # Rotation

/*
TestService_Refresh_RotatesAndBurnsOldToken verifies the rotation chain: R1
rotates into R2, a replay of R1 fails, and R2 still rotates.
*/
func TestService_Refresh_RotatesAndBurnsOldToken(t *testing.T) {
	fixture := newServiceFixture(t)

	first, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)

	// 1. R1 → R2
	second, err := fixture.service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// 2. Replaying R1 must fail: it is revoked, not repaired
	_, err = fixture.service.Refresh(context.Background(), first.RefreshToken)
	replayApp := apperr.As(err)
	require.NotNil(t, replayApp)
	assert.Equal(t, "UNAUTHORIZED", replayApp.Code)

	// 3. R2 remains usable
	_, err = fixture.service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_SameSecondLoginsStayIndependent verifies that two logins
for the same account within the same second produce distinct refresh tokens,
each living in its own ledger row, and that both sessions rotate
independently. Claims are stamped at one-second precision, so without a
per-token ID both pairs would hash to the same ledger entry and rotating one
would burn the other. The row-per-insert ledger is used here because a
hash-keyed fake would mask the duplication.
*/
func TestService_Refresh_SameSecondLoginsStayIndependent(t *testing.T) {
	issuer, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "elimu.co.tz")
	require.NoError(t, err)

	users := newFakeUserRepository()
	tokens := newRowTokenRepository()
	service := auth.NewService(users, tokens, issuer)

	_, _, err = service.Register(context.Background(), auth.RegisterInput{
		Email:     "amina@example.co.tz",
		Password:  "password-123",
		FirstName: "Amina",
		LastName:  "Mushi",
	})
	require.NoError(t, err)

	// 1. Two back-to-back logins mint distinct tokens in distinct rows
	first, err := service.Login(context.Background(), "amina@example.co.tz", "password-123")
	require.NoError(t, err)
	second, err := service.Login(context.Background(), "amina@example.co.tz", "password-123")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, 3, tokens.count()) // registration pair + two logins

	// 2. Each session rotates on its own
	_, err = service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_UnknownTokenFails verifies that a token value absent from
the ledger is rejected.
*/
func TestService_Refresh_UnknownTokenFails(t *testing.T) {
	fixture := newServiceFixture(t)

	token, err := fixture.issuer.IssueRefreshToken(fixture.ownUserID, time.Hour)
	require.NoError(t, err)

	// Validly signed but never persisted
	_, err = fixture.service.Refresh(context.Background(), token)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

/*
TestService_Refresh_ExpiredRecordFails verifies that a ledger record past its
expiry can never rotate, even when non-revoked.
*/
func TestService_Refresh_ExpiredRecordFails(t *testing.T) {
	fixture := newServiceFixture(t)

	token, err := fixture.issuer.IssueRefreshToken(fixture.ownUserID, time.Hour)
	require.NoError(t, err)

	record := &auth.RefreshTokenRecord{
		ID:        "expired-record",
		TokenHash: sec.HashToken(token),
		OwnerID:   fixture.ownUserID,
		IssuedAt:  time.Now().Add(-8 * 24 * time.Hour),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, fixture.tokens.Create(context.Background(), record))

	_, err = fixture.service.Refresh(context.Background(), token)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

/*
TestService_Refresh_ConcurrentCallsHaveOneWinner verifies the concurrency
contract: two simultaneous refreshes of the same token value produce exactly
one successful rotation and one rejection, never two new pairs.
*/
func TestService_Refresh_ConcurrentCallsHaveOneWinner(t *testing.T) {
	fixture := newServiceFixture(t)

	pair, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)

	start := make(chan struct{})
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		go func() {
			<-start
			_, refreshErr := fixture.service.Refresh(context.Background(), pair.RefreshToken)
			results <- refreshErr
		}()
	}
	close(start)

	var successes, failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHORIZED", appError.Code)
			failures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
}

// # Revocation

/*
TestService_Logout_IsIdempotent verifies that logging out an unknown token is
a silent no-op and a repeated logout of the same token also succeeds.
*/
func TestService_Logout_IsIdempotent(t *testing.T) {
	fixture := newServiceFixture(t)

	pair, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)

	// 1. Unknown token value
	assert.NoError(t, fixture.service.Logout(context.Background(), "never-issued-token"))

	// 2. First real logout burns the token
	assert.NoError(t, fixture.service.Logout(context.Background(), pair.RefreshToken))
	_, err = fixture.service.Refresh(context.Background(), pair.RefreshToken)
	assert.Error(t, err)

	// 3. Repeated logout is still a success
	assert.NoError(t, fixture.service.Logout(context.Background(), pair.RefreshToken))
}

/*
TestService_Logout_DoesNotCheckOwnership documents that logout revokes
whichever record matches the token value, without verifying the caller owns
it. A principal presenting another account's refresh token revokes that
session. Restricting revocation to the caller's own tokens would be a
behavior change to this contract.
*/
func TestService_Logout_DoesNotCheckOwnership(t *testing.T) {
	fixture := newServiceFixture(t)

	_, otherUser, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "other@example.co.tz",
		Password:  "password-000",
		FirstName: "Baraka",
		LastName:  "Temba",
	})
	require.NoError(t, err)

	otherPair, err := fixture.service.Login(context.Background(), "other@example.co.tz", "password-000")
	require.NoError(t, err)
	require.NotEqual(t, fixture.ownUserID, otherUser.ID)

	// The fixture's principal revokes the OTHER user's token and it sticks.
	assert.NoError(t, fixture.service.Logout(context.Background(), otherPair.RefreshToken))
	_, err = fixture.service.Refresh(context.Background(), otherPair.RefreshToken)
	assert.Error(t, err)
}

/*
TestService_LogoutAll_RevokesEveryOwnedToken verifies that after logoutAll,
every refresh token previously issued to the owner fails rotation, while
other owners are untouched.
*/
func TestService_LogoutAll_RevokesEveryOwnedToken(t *testing.T) {
	fixture := newServiceFixture(t)

	first, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)
	second, err := fixture.service.Login(context.Background(), fixture.ownEmail, fixture.ownPass)
	require.NoError(t, err)

	otherPair, _, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:     "bystander@example.co.tz",
		Password:  "password-111",
		FirstName: "Zawadi",
		LastName:  "Mwakasege",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.LogoutAll(context.Background(), fixture.ownUserID))

	// 1. Both of the owner's tokens are dead
	_, err = fixture.service.Refresh(context.Background(), first.RefreshToken)
	assert.Error(t, err)
	_, err = fixture.service.Refresh(context.Background(), second.RefreshToken)
	assert.Error(t, err)

	// 2. The bystander's token still rotates
	_, err = fixture.service.Refresh(context.Background(), otherPair.RefreshToken)
	assert.NoError(t, err)
}

// # Profile

/*
TestService_GetProfile verifies profile retrieval for live and vanished
principals.
*/
func TestService_GetProfile(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.GetProfile(context.Background(), fixture.ownUserID)
	require.NoError(t, err)
	assert.Equal(t, fixture.ownEmail, user.Email)

	_, err = fixture.service.GetProfile(context.Background(), "missing-principal-id")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}
