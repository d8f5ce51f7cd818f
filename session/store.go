package session

import (
	"sync"
)

// Listener receives every action after the store applied it.
type Listener interface {
	OnAction(action Action)
}

// Dispatcher publishes actions.
type Dispatcher interface {
	Dispatch(action Action)
}

// Store holds the session state and publishes every action it applies to
// its subscribers. Listeners are called without the lock held so they may
// read State.
type Store struct {
	mu    sync.RWMutex
	state State

	listenersMu sync.RWMutex
	listeners   map[string]Listener
}

func NewStore() *Store {
	return &Store{
		state:     State{EnabledTokens: map[string][]string{}},
		listeners: make(map[string]Listener),
	}
}

// Subscribe registers listener under uniqueID, replacing any listener
// already registered under it.
func (s *Store) Subscribe(uniqueID string, listener Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners[uniqueID] = listener
}

func (s *Store) Unsubscribe(uniqueID string) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	delete(s.listeners, uniqueID)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.copy()
}

// Dispatch applies action to the state and notifies the subscribers.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = reduce(s.state, action)
	s.mu.Unlock()

	log.Tracef("Dispatched %s", action.Type)

	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l.OnAction(action)
	}
}

func reduce(state State, action Action) State {
	switch action.Type {
	case Login:
		data, ok := action.Data.(LoginData)
		if !ok {
			break
		}
		state = State{
			LoggedIn:      true,
			Account:       data.Account,
			EnabledTokens: map[string][]string{},
		}
		if data.Account != nil {
			state.Username = data.Account.Username()
		}

	case InsertWalletIDsForProgress:
		if data, ok := action.Data.(WalletIDsData); ok {
			state.WalletIDsForProgress = append([]string(nil), data.ActiveWalletIDs...)
		}

	case AccountInitComplete:
		if data, ok := action.Data.(*AccountInitState); ok {
			state.Init = data.Copy()
			state.SelectedWallet = SelectWalletData{WalletID: data.WalletID, CurrencyCode: data.CurrencyCode}
		}

	case SelectWallet:
		if data, ok := action.Data.(SelectWalletData); ok {
			state.SelectedWallet = data
		}

	case UpdateWallets:
		if data, ok := action.Data.(UpdateWalletsData); ok {
			state.Wallets = append([]WalletSummary(nil), data.Wallets...)
			if state.Init != nil {
				state.Init.ActiveWalletIDs = append([]string(nil), data.ActiveWalletIDs...)
				state.Init.ArchivedWalletIDs = append([]string(nil), data.ArchivedWalletIDs...)
			}
		}

	case UpdateWalletEnabledTokens:
		if data, ok := action.Data.(WalletEnabledTokensData); ok {
			tokens := make(map[string][]string, len(state.EnabledTokens)+1)
			for id, codes := range state.EnabledTokens {
				tokens[id] = codes
			}
			tokens[data.WalletID] = append([]string(nil), data.EnabledTokens...)
			state.EnabledTokens = tokens
		}

	case UpdateWalletsEnabledTokens:
		state.EnabledTokensSynced = true

	case AccountReferralLoaded:
		if data, ok := action.Data.(ReferralData); ok {
			state.Referral = ReferralData{
				InstallerID:   data.InstallerID,
				CurrencyCodes: append([]string(nil), data.CurrencyCodes...),
			}
		}

	case Logout:
		state = State{EnabledTokens: map[string][]string{}}

	default:
		log.Debugf("Unhandled action %s", action.Type)
	}
	return state
}
