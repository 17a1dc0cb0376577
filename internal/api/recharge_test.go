package api

import (
	"testing" // Go testing package

	"github.com/haimi-h/task-backend-sub000/internal/domain" // Importing domain models

	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/gorm"                        // GORM ORM library
)

// pendingRequest inserts a pending recharge request for the user
func pendingRequest(t *testing.T, db *gorm.DB, userID uint, amount float64) *domain.RechargeRequest {
	t.Helper()
	request := domain.RechargeRequest{
		UserID:   userID,
		Amount:   amount,
		Currency: "USDT",
		Status:   domain.RechargeStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)
	return &request
}

// Approving a pending request flips the status and credits the balance exactly once
func TestApproveRechargeCreditsOnce(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, domain.User{WalletBalance: 0})
	request := pendingRequest(t, db, user.ID, 50.00)

	decided, err := decideRecharge(db, request.ID, domain.RechargeStatusApproved, "looks good")
	require.NoError(t, err)
	require.Equal(t, domain.RechargeStatusApproved, decided.Status)

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 50.00, got.WalletBalance) // Credited exactly once

	var gotReq domain.RechargeRequest
	require.NoError(t, db.First(&gotReq, request.ID).Error)
	require.Equal(t, domain.RechargeStatusApproved, gotReq.Status)
	require.Equal(t, "looks good", gotReq.AdminNotes)
}

// A terminal request cannot be decided again, and no further credit happens
func TestApproveRechargeIdempotence(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, domain.User{WalletBalance: 0})
	request := pendingRequest(t, db, user.ID, 50.00)

	_, err := decideRecharge(db, request.ID, domain.RechargeStatusApproved, "")
	require.NoError(t, err)

	// Second approval is rejected
	_, err = decideRecharge(db, request.ID, domain.RechargeStatusApproved, "")
	require.ErrorIs(t, err, errRequestNotPending)

	// So is a rejection after the fact
	_, err = decideRecharge(db, request.ID, domain.RechargeStatusRejected, "")
	require.ErrorIs(t, err, errRequestNotPending)

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 50.00, got.WalletBalance) // Still a single credit
}

// Rejection never touches the balance
func TestRejectRechargeNoCredit(t *testing.T) {
	db := openTestDB(t)
	user := newTestUser(t, db, domain.User{WalletBalance: 25.00})
	request := pendingRequest(t, db, user.ID, 50.00)

	decided, err := decideRecharge(db, request.ID, domain.RechargeStatusRejected, "receipt unreadable")
	require.NoError(t, err)
	require.Equal(t, domain.RechargeStatusRejected, decided.Status)

	var got domain.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, 25.00, got.WalletBalance)
}

// Deciding a missing request surfaces record-not-found for the 404 mapping
func TestDecideMissingRequest(t *testing.T) {
	db := openTestDB(t)
	_, err := decideRecharge(db, 4294967294, domain.RechargeStatusApproved, "")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
