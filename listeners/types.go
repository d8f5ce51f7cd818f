package listeners

// InitNotifType is the stage of an account initialization.
type InitNotifType int

const (
	LoginAccepted    InitNotifType = iota // 0 = credentials accepted.
	InitCompleted                         // 1 = account state published.
	WalletSelected                        // 2 = active wallet changed.
	WalletsRefreshed                      // 3 = wallet list and tokens refreshed.
	LoggedOut                             // 4 = session destroyed.
)

// InitNotification models account initialization notifications.
type InitNotification struct {
	Type     InitNotifType
	Username string
	WalletID string
}
