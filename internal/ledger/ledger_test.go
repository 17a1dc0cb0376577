package ledger

import (
	"errors"  // Forced failures
	"fmt"     // Unique test phone numbers
	"os"      // Test DSN from the environment
	"sync"    // Concurrent debit attempts
	"testing" // Go testing package
	"time"    // Unique test phone numbers

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models

	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/driver/mysql"                // MySQL driver for GORM
	"gorm.io/gorm"                        // GORM ORM library
)

// openTestDB connects to the MySQL instance named by LEDGER_TEST_DSN, or
// skips the test when none is configured. Row locking is a MySQL behavior,
// so these tests only run against the real thing.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("LEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

// newTestUser inserts a user with the given balance and a unique phone
func newTestUser(t *testing.T, db *gorm.DB, balance float64) *domain.User {
	t.Helper()
	user := domain.User{
		Username:           "ledger-test",
		Phone:              fmt.Sprintf("1%d", time.Now().UnixNano()), // Unique per call
		Password:           "x",
		WithdrawalPassword: "x",
		InvitationCode:     fmt.Sprintf("T%d", time.Now().UnixNano()), // Unique per call
		WalletBalance:      balance,
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() { db.Delete(&domain.User{}, user.ID) })
	return &user
}

// reload fetches the current user row
func reload(t *testing.T, db *gorm.DB, id uint) *domain.User {
	t.Helper()
	var user domain.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

// Non-positive amounts are rejected before any database work
func TestInvalidAmountRejectedWithoutDB(t *testing.T) {
	require.ErrorIs(t, Credit(nil, 1, 0), ErrInvalidAmount)
	require.ErrorIs(t, Credit(nil, 1, -5), ErrInvalidAmount)
	require.ErrorIs(t, Debit(nil, 1, 0), ErrInvalidAmount)
	require.ErrorIs(t, Debit(nil, 1, -5), ErrInvalidAmount)
}

// A debit larger than the balance fails and leaves the balance untouched
func TestDebitInsufficientFunds(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, 100.00)

	err := Debit(db, user.ID, 150.00)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, 100.00, reload(t, db, user.ID).WalletBalance)
}

// A credit lands exactly once
func TestCreditAddsExactly(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, 100.00)

	require.NoError(t, Credit(db, user.ID, 50.00))
	require.Equal(t, 150.00, reload(t, db, user.ID).WalletBalance)
}

// Unknown users surface the typed error
func TestUserNotFound(t *testing.T) {
	db := openTestDB(t)
	require.ErrorIs(t, Credit(db, 4294967294, 10.00), ErrUserNotFound)
}

// A failure after the debit rolls the whole transaction back
func TestWithUserLockRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, 100.00)
	forced := errors.New("forced failure after debit")

	err := WithUserLock(db, user.ID, func(tx *gorm.DB, u *domain.User) error {
		require.NoError(t, DebitLocked(tx, u, 40.00))
		return forced // Abort between the debit and the dependent write
	})
	require.ErrorIs(t, err, forced)
	require.Equal(t, 100.00, reload(t, db, user.ID).WalletBalance) // Debit rolled back
}

// Concurrent debits against the same user serialize on the row lock: with a
// balance of 100 and five debits of 60, exactly one may succeed
func TestConcurrentDebitsSerialize(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, 100.00)

	const attempts = 5
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- Debit(db, user.ID, 60.00)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 40.00, reload(t, db, user.ID).WalletBalance)
}
