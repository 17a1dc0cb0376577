package api

import (
	"net/http" // HTTP status codes
	"testing"  // Go testing package

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models

	"github.com/stretchr/testify/require" // Test assertions
	"golang.org/x/crypto/bcrypt"          // Password hashing
)

// A valid generated-style TRC20 destination for withdrawal tests
const testAddress = "TQ5kjes11Nc7ZbHF8GHCqLv1JK7vFqkA9B"

// A withdrawal larger than the balance is rejected and the balance is unchanged
func TestWithdrawInsufficientFunds(t *testing.T) {
	db := openTestDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-wd"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := newTestUser(t, db, domain.User{WalletBalance: 100.00, WithdrawalPassword: string(hash)})
	r := taskRouter(db, user.ID)

	code, body := doJSON(t, r, "POST", "/users/withdraw", map[string]any{
		"amount":              150.00,
		"to_address":          testAddress,
		"withdrawal_password": "secret-wd",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Insufficient funds", body["error"])

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 100.00, got.WalletBalance) // Balance remains untouched

	var count int64 // And no withdrawal row exists
	require.NoError(t, db.Model(&domain.Withdrawal{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

// A wrong withdrawal password is rejected with 401 before any debit
func TestWithdrawWrongPassword(t *testing.T) {
	db := openTestDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-wd"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := newTestUser(t, db, domain.User{WalletBalance: 100.00, WithdrawalPassword: string(hash)})
	r := taskRouter(db, user.ID)

	code, _ := doJSON(t, r, "POST", "/users/withdraw", map[string]any{
		"amount":              50.00,
		"to_address":          testAddress,
		"withdrawal_password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, code)

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 100.00, got.WalletBalance)
}

// A malformed destination address never reaches the ledger
func TestWithdrawInvalidAddress(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, domain.User{WalletBalance: 100.00})
	r := taskRouter(db, user.ID)

	code, _ := doJSON(t, r, "POST", "/users/withdraw", map[string]any{
		"amount":              50.00,
		"to_address":          "not-an-address",
		"withdrawal_password": "whatever",
	})
	require.Equal(t, http.StatusBadRequest, code)
}

// A successful withdrawal debits the balance and records a completed withdrawal
func TestWithdrawSuccess(t *testing.T) {
	db := openTestDB(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-wd"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := newTestUser(t, db, domain.User{WalletBalance: 100.00, WithdrawalPassword: string(hash)})
	r := taskRouter(db, user.ID)

	code, body := doJSON(t, r, "POST", "/users/withdraw", map[string]any{
		"amount":              60.00,
		"to_address":          testAddress,
		"withdrawal_password": "secret-wd",
	})
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, body["withdrawalId"])
	require.Equal(t, domain.WithdrawalStatusCompleted, body["status"]) // Simulated immediate settlement

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 40.00, got.WalletBalance)

	var withdrawal domain.Withdrawal // The record exists with the debited amount
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&withdrawal).Error)
	require.Equal(t, 60.00, withdrawal.Amount)
	require.Equal(t, testAddress, withdrawal.ToAddress)
	require.NotEmpty(t, withdrawal.TransactionID)
}
