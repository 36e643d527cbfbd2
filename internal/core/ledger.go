package core

import (
	"errors"
	"sync"

	"github.com/ecolive50-hue/backend/internal/domain"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// UserLedger owns every user's spendable coin balance. Balances are
// global, not scoped to a room, and live only as long as the process.
type UserLedger struct {
	mu       sync.Mutex
	balances map[domain.UserID]int64
}

func NewUserLedger() *UserLedger {
	return &UserLedger{balances: make(map[domain.UserID]int64)}
}

// Ensure grants the default balance on first reference. Known users
// are left untouched.
func (l *UserLedger) Ensure(uid domain.UserID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.balances[uid]; !ok {
		l.balances[uid] = domain.DefaultBalance
	}
}

// Debit withdraws amount from uid. The balance is never left negative:
// either the full amount is taken or nothing changes.
func (l *UserLedger) Debit(uid domain.UserID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, ok := l.balances[uid]
	if !ok {
		bal = domain.DefaultBalance
	}
	if bal < amount {
		return ErrInsufficientFunds
	}
	l.balances[uid] = bal - amount
	return nil
}

// Credit deposits amount onto uid, creating the account if needed.
func (l *UserLedger) Credit(uid domain.UserID, amount int64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, ok := l.balances[uid]
	if !ok {
		bal = domain.DefaultBalance
	}
	l.balances[uid] = bal + amount
}

func (l *UserLedger) BalanceOf(uid domain.UserID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if bal, ok := l.balances[uid]; ok {
		return bal
	}
	return domain.DefaultBalance
}
