package model

import (
	"sync"

	"github.com/shopspring/decimal"
)

type Contact struct {
	MobileNumber string
	Name         string
}

type LoginResult struct {
	AccountID      string
	Name           string
	WalletAmount   decimal.Decimal
	Contacts       []Contact
	RecentContacts []Contact
}

type SignupRequest struct {
	MobileNumber string
	Name         string
	Email        string
	Password     string
	MPIN         string
}

// SessionContext is the in-memory state of one signed-in client.
// DisplayedBalance may lag ConfirmedBalance while a balance animation runs.
type SessionContext struct {
	mu               sync.RWMutex
	accountID        string
	displayName      string
	displayedBalance decimal.Decimal
	confirmedBalance decimal.Decimal
	contacts         []Contact
	recentContacts   []Contact
	holdings         []Holding
}

func NewSessionContext(login LoginResult) *SessionContext {
	return &SessionContext{
		accountID:        login.AccountID,
		displayName:      login.Name,
		displayedBalance: login.WalletAmount,
		confirmedBalance: login.WalletAmount,
		contacts:         append([]Contact(nil), login.Contacts...),
		recentContacts:   append([]Contact(nil), login.RecentContacts...),
	}
}

func (s *SessionContext) AccountID() string {
	return s.accountID
}

func (s *SessionContext) DisplayName() string {
	return s.displayName
}

func (s *SessionContext) ConfirmedBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirmedBalance
}

func (s *SessionContext) DisplayedBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayedBalance
}

func (s *SessionContext) SetConfirmedBalance(balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmedBalance = balance
}

func (s *SessionContext) SetDisplayedBalance(balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayedBalance = balance
}

// DebitConfirmedBalance subtracts amount from the confirmed balance and returns the new value.
func (s *SessionContext) DebitConfirmedBalance(amount decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmedBalance = s.confirmedBalance.Sub(amount)
	return s.confirmedBalance
}

func (s *SessionContext) Contacts() []Contact {
	return append([]Contact(nil), s.contacts...)
}

func (s *SessionContext) RecentContacts() []Contact {
	return append([]Contact(nil), s.recentContacts...)
}

// FindContact looks the mobile number up in contacts first, then in recent contacts.
func (s *SessionContext) FindContact(mobileNumber string) (Contact, bool) {
	for _, c := range s.contacts {
		if c.MobileNumber == mobileNumber {
			return c, true
		}
	}
	for _, c := range s.recentContacts {
		if c.MobileNumber == mobileNumber {
			return c, true
		}
	}
	return Contact{}, false
}

func (s *SessionContext) Holdings() []Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHoldings(s.holdings)
}

func (s *SessionContext) Holding(symbol string) (Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.holdings {
		if h.Symbol == symbol {
			return h.Clone(), true
		}
	}
	return Holding{}, false
}

// ReplaceHoldings overwrites the local portfolio with an authoritative snapshot.
func (s *SessionContext) ReplaceHoldings(holdings []Holding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = cloneHoldings(holdings)
}

// UpdateHoldings applies fn to a copy of the portfolio and stores the result atomically.
func (s *SessionContext) UpdateHoldings(fn func(holdings []Holding) []Holding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = fn(cloneHoldings(s.holdings))
}

func cloneHoldings(holdings []Holding) []Holding {
	if holdings == nil {
		return nil
	}
	res := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		res = append(res, h.Clone())
	}
	return res
}
