package login_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/login"
	"github.com/crypto-power/walletinit/session"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Provisioner", func() {
	var (
		account     *fakeAccount
		store       *session.Store
		tokens      *fakeTokens
		tracker     *fakeTracker
		provisioner *login.Provisioner
		ctx         = context.Background()
	)

	BeforeEach(func() {
		account = newFakeAccount("alice")
		store = session.NewStore()
		tokens = &fakeTokens{}
		tracker = &fakeTracker{}
		cfg := login.DefaultConfig()
		cfg.WalletCreationTimeout = 100 * time.Millisecond
		provisioner = login.NewProvisioner(cfg, store, tokens, tracker)
	})

	Describe("CreateDefaultWallets", func() {
		It("creates bitcoin, bitcoin cash and ethereum in order and selects the first", func() {
			wallets, err := provisioner.CreateDefaultWallets(ctx, account, "iso:USD")
			Expect(err).To(BeNil())
			Expect(wallets).To(HaveLen(3))
			Expect(account.created).To(Equal([]string{
				plugins.WalletType(plugins.Bitcoin),
				plugins.WalletType(plugins.BitcoinCash),
				plugins.WalletType(plugins.Ethereum),
			}))
			Expect(wallets[0].FiatCurrencyCode()).To(Equal("iso:USD"))
			Expect(store.State().SelectedWallet).To(Equal(session.SelectWalletData{
				WalletID:     wallets[0].ID(),
				CurrencyCode: "BTC",
			}))
			Expect(tracker.events).To(Equal([]string{login.SignupWalletsCreated}))
			Expect(account.maxInFlight).To(Equal(1))
		})
	})

	Describe("CreateCustomWallets", func() {
		It("creates one wallet per parent and enables its tokens once", func() {
			wallets, err := provisioner.CreateCustomWallets(ctx, account, "iso:EUR", []string{"BTC", "ETH:TOKENA", "ETH:TOKENB"})
			Expect(err).To(BeNil())
			Expect(wallets).To(HaveLen(2))
			Expect(account.created).To(Equal([]string{
				plugins.WalletType(plugins.Bitcoin),
				plugins.WalletType(plugins.Ethereum),
			}))

			ethID := wallets[1].ID()
			Expect(tokens.calls).To(Equal([]tokenCall{
				{op: "set", walletID: ethID, codes: []string{"TOKENA", "TOKENB"}},
				{op: "check", walletID: ethID, codes: []string{"TOKENA", "TOKENB"}},
			}))
			Expect(tracker.events).To(BeEmpty())
		})

		It("keeps the first occurrence of a parent", func() {
			_, err := provisioner.CreateCustomWallets(ctx, account, "iso:USD", []string{"ETH:TOKENA", "BTC", "ETH"})
			Expect(err).To(BeNil())
			Expect(account.created).To(Equal([]string{
				plugins.WalletType(plugins.Ethereum),
				plugins.WalletType(plugins.Bitcoin),
			}))
		})

		It("falls back to the default wallets when no code has a plugin", func() {
			wallets, err := provisioner.CreateCustomWallets(ctx, account, "iso:USD", []string{"NOPE", "ALSO:NOPE"})
			Expect(err).To(BeNil())
			Expect(wallets).To(HaveLen(3))
			Expect(tracker.events).To(Equal([]string{login.SignupWalletsCreated}))
		})
	})

	Describe("CreateWallet", func() {
		It("fails with a timeout instead of hanging", func() {
			account.hang = true
			start := time.Now()
			_, err := provisioner.CreateWallet(ctx, account, plugins.WalletType(plugins.Bitcoin), "My Bitcoin", "iso:USD")
			Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))

			var creationErr login.WalletCreationError
			Expect(errors.As(err, &creationErr)).To(BeTrue())
			Expect(creationErr.WalletType).To(Equal(plugins.WalletType(plugins.Bitcoin)))
			Expect(errors.Is(err, login.ErrWalletCreationTimeout)).To(BeTrue())
			Expect(store.State().SelectedWallet.WalletID).To(BeEmpty())
		})

		It("wraps core failures", func() {
			account.failOn = plugins.WalletType(plugins.Ethereum)
			_, err := provisioner.CreateWallet(ctx, account, plugins.WalletType(plugins.Ethereum), "My Ethereum", "iso:USD")

			var creationErr login.WalletCreationError
			Expect(errors.As(err, &creationErr)).To(BeTrue())
			Expect(errors.Is(err, login.ErrWalletCreationTimeout)).To(BeFalse())
		})

		It("fails when the core returns no wallet and no error", func() {
			_, err := provisioner.CreateWallet(ctx, &walletlessAccount{account}, plugins.WalletType(plugins.Bitcoin), "My Bitcoin", "iso:USD")

			var creationErr login.WalletCreationError
			Expect(errors.As(err, &creationErr)).To(BeTrue())
			Expect(creationErr.WalletType).To(Equal(plugins.WalletType(plugins.Bitcoin)))
			Expect(errors.Is(err, login.ErrWalletCreationTimeout)).To(BeFalse())
			Expect(store.State().SelectedWallet.WalletID).To(BeEmpty())
		})

		It("does not select a wallet when others are active", func() {
			account.addWallet("existing-1", plugins.WalletType(plugins.Bitcoin))
			account.addWallet("existing-2", plugins.WalletType(plugins.Litecoin))
			_, err := provisioner.CreateWallet(ctx, account, plugins.WalletType(plugins.Decred), "My Decred", "iso:USD")
			Expect(err).To(BeNil())
			Expect(store.State().SelectedWallet.WalletID).To(BeEmpty())
		})

		It("runs at most one creation per account at a time", func() {
			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := provisioner.CreateWallet(ctx, account, plugins.WalletType(plugins.Bitcoin), "My Bitcoin", "iso:USD")
					Expect(err).To(BeNil())
				}()
			}
			wg.Wait()
			Expect(account.created).To(HaveLen(5))
			Expect(account.maxInFlight).To(Equal(1))
		})
	})
})

// walletlessAccount reports success without returning a wallet.
type walletlessAccount struct {
	*fakeAccount
}

func (walletlessAccount) CreateCurrencyWallet(context.Context, string, sdk.CreateWalletOptions) (sdk.Wallet, error) {
	return nil, nil
}
