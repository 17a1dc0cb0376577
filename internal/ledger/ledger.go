// Package ledger is the single entry point for wallet balance mutation.
// Every credit and debit runs inside one database transaction holding an
// exclusive lock on the user's row, so concurrent operations against the
// same user serialize and a failure at any step rolls back every write
// made under the lock.
package ledger

import (
	"errors"
	"fmt"

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // SELECT ... FOR UPDATE clause
)

// Typed failures surfaced by ledger operations
var (
	ErrUserNotFound      = errors.New("user not found")          // No row for the given user id
	ErrInsufficientFunds = errors.New("insufficient funds")      // Debit larger than the current balance
	ErrInvalidAmount     = errors.New("amount must be positive") // Zero or negative amount
)

// LockUser acquires SELECT ... FOR UPDATE on the user's row inside an
// already-open transaction and returns the locked snapshot.
func LockUser(tx *gorm.DB, userID uint) (*domain.User, error) {
	var user domain.User // Locked snapshot of the user row
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound // No such user
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err) // Wrap storage failure
	}
	return &user, nil
}

// WithUserLock opens a transaction, locks the user's row with SELECT ... FOR
// UPDATE, and runs fn with the locked user and the transaction handle.
// fn's dependent writes (withdrawal records, status flips) commit or roll
// back together with the balance change.
func WithUserLock(db *gorm.DB, userID uint, fn func(tx *gorm.DB, user *domain.User) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := LockUser(tx, userID) // Locked snapshot of the user row
		if err != nil {
			return err
		}
		return fn(tx, user) // Any error here rolls the whole transaction back
	})
}

// Credit atomically adds amount to the user's balance.
func Credit(db *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount // Reject before touching the database
	}
	return WithUserLock(db, userID, func(tx *gorm.DB, user *domain.User) error {
		return CreditLocked(tx, user, amount)
	})
}

// Debit atomically deducts amount from the user's balance, failing with
// ErrInsufficientFunds when the balance cannot cover it.
func Debit(db *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount // Reject before touching the database
	}
	return WithUserLock(db, userID, func(tx *gorm.DB, user *domain.User) error {
		return DebitLocked(tx, user, amount)
	})
}

// CreditLocked applies a credit to a user row already locked inside tx.
// Callers composing a credit with other writes (recharge approval, lucky
// order payout) use this from within WithUserLock.
func CreditLocked(tx *gorm.DB, user *domain.User, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	// Relative update so the database applies the delta under the held lock
	if err := tx.Model(user).Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to credit user %d: %w", user.ID, err) // Wrap storage failure
	}
	user.WalletBalance += amount // Keep the in-memory snapshot current for the caller
	// Log the financial mutation
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,            // Credited user
		"amount":    amount,             // Credited amount
		"balance":   user.WalletBalance, // Balance after the credit
		"direction": "credit",           // Mutation direction
	}).Info("Ledger credit")
	return nil
}

// DebitLocked verifies funds and deducts from a user row already locked inside tx.
func DebitLocked(tx *gorm.DB, user *domain.User, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	// The precondition reads the locked snapshot, so no concurrent debit can
	// slip between the check and the update
	if user.WalletBalance < amount {
		return ErrInsufficientFunds
	}
	if err := tx.Model(user).Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to debit user %d: %w", user.ID, err) // Wrap storage failure
	}
	user.WalletBalance -= amount // Keep the in-memory snapshot current for the caller
	// Log the financial mutation
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,            // Debited user
		"amount":    amount,             // Debited amount
		"balance":   user.WalletBalance, // Balance after the debit
		"direction": "debit",            // Mutation direction
	}).Info("Ledger debit")
	return nil
}
