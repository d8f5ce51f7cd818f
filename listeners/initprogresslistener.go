package listeners

import (
	"github.com/crypto-power/walletinit/session"
)

// InitProgressListener turns session actions into initialization progress
// notifications.
type InitProgressListener struct {
	InitStatusChan chan InitNotification
}

func NewInitProgressListener() *InitProgressListener {
	return &InitProgressListener{
		InitStatusChan: make(chan InitNotification, 8),
	}
}

func (ip *InitProgressListener) OnAction(action session.Action) {
	switch data := action.Data.(type) {
	case session.LoginData:
		var username string
		if data.Account != nil {
			username = data.Account.Username()
		}
		ip.sendNotification(InitNotification{Type: LoginAccepted, Username: username})
	case *session.AccountInitState:
		ip.sendNotification(InitNotification{Type: InitCompleted, WalletID: data.WalletID})
	case session.SelectWalletData:
		ip.sendNotification(InitNotification{Type: WalletSelected, WalletID: data.WalletID})
	case session.LogoutData:
		ip.sendNotification(InitNotification{Type: LoggedOut, Username: data.Username})
	default:
		if action.Type == session.UpdateWalletsEnabledTokens {
			ip.sendNotification(InitNotification{Type: WalletsRefreshed})
		}
	}
}

func (ip *InitProgressListener) sendNotification(signal InitNotification) {
	select {
	case ip.InitStatusChan <- signal:
	default:
	}
}
