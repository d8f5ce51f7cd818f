package listeners

import (
	"github.com/crypto-power/walletinit/session"
)

// SessionListener satisfies the session.Listener interface contract.
// Actions are dropped when the channel buffer is full.
type SessionListener struct {
	ActionChan chan session.Action
	types      map[session.ActionType]bool
}

// NewSessionListener returns a listener that forwards the given action
// types, or every action if none is given.
func NewSessionListener(types ...session.ActionType) *SessionListener {
	sl := &SessionListener{
		ActionChan: make(chan session.Action, 16),
	}
	if len(types) > 0 {
		sl.types = make(map[session.ActionType]bool, len(types))
		for _, t := range types {
			sl.types[t] = true
		}
	}
	return sl
}

func (sl *SessionListener) OnAction(action session.Action) {
	if sl.types != nil && !sl.types[action.Type] {
		return
	}
	sl.sendNotification(action)
}

func (sl *SessionListener) sendNotification(action session.Action) {
	select {
	case sl.ActionChan <- action:
	default:
	}
}
