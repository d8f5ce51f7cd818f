package referral_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/referral"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/session"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type namedAccount struct {
	sdk.Account
}

func (namedAccount) Username() string { return "carol" }

var _ = Describe("Service", func() {
	var (
		dir     string
		db      *storm.DB
		store   *session.Store
		server  *httptest.Server
		paths   []string
		ctx     = context.Background()
		account = namedAccount{}
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "referral")
		Expect(err).To(BeNil())
		db, err = storm.Open(filepath.Join(dir, "referral.db"))
		Expect(err).To(BeNil())
		store = session.NewStore()

		paths = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path != "/referral/promo1" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(`{"currencyCodes":["BTC","ETH:TOKENA"]}`))
		}))
	})

	AfterEach(func() {
		server.Close()
		Expect(db.Close()).To(Succeed())
		os.RemoveAll(dir)
	})

	It("loads an empty referral for an unknown account", func() {
		service := referral.NewService(referral.Config{InstallerID: "promo1"}, db, store)
		ref, err := service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(BeEmpty())
		Expect(ref.InstallerID).To(Equal("promo1"))
		Expect(store.State().Referral.InstallerID).To(Equal("promo1"))
	})

	It("does nothing without a server", func() {
		service := referral.NewService(referral.Config{InstallerID: "promo1"}, db, store)
		Expect(service.RefreshAccountReferral(ctx, account)).To(Succeed())
		Expect(paths).To(BeEmpty())
	})

	It("refreshes and caches the referral", func() {
		service := referral.NewService(referral.Config{Server: server.URL + "/", InstallerID: "promo1"}, db, store)
		Expect(service.RefreshAccountReferral(ctx, account)).To(Succeed())
		Expect(paths).To(Equal([]string{"/referral/promo1"}))

		ref, err := service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(Equal([]string{"BTC", "ETH:TOKENA"}))
		Expect(store.State().Referral.CurrencyCodes).To(Equal([]string{"BTC", "ETH:TOKENA"}))
	})

	It("gives a new account the configured install wallet list", func() {
		service := referral.NewService(referral.Config{
			InstallerID:   "promo1",
			CurrencyCodes: []string{"LTC", "ETH:TOKENB"},
		}, db, store)
		ref, err := service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(Equal([]string{"LTC", "ETH:TOKENB"}))
		Expect(store.State().Referral.CurrencyCodes).To(Equal([]string{"LTC", "ETH:TOKENB"}))
		Expect(paths).To(BeEmpty())
	})

	It("fetches the install wallet list for a new account", func() {
		service := referral.NewService(referral.Config{Server: server.URL, InstallerID: "promo1"}, db, store)
		ref, err := service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(Equal([]string{"BTC", "ETH:TOKENA"}))
		Expect(paths).To(Equal([]string{"/referral/promo1"}))

		By("Keeping the seeded referral on the next load")
		ref, err = service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(Equal([]string{"BTC", "ETH:TOKENA"}))
		Expect(paths).To(HaveLen(1))
	})

	It("loads an empty referral when the install referral is unavailable", func() {
		service := referral.NewService(referral.Config{Server: server.URL, InstallerID: "unknown"}, db, store)
		ref, err := service.LoadAccountReferral(ctx, account)
		Expect(err).To(BeNil())
		Expect(ref.CurrencyCodes).To(BeEmpty())
		Expect(ref.InstallerID).To(Equal("unknown"))
	})

	It("reports server failures", func() {
		service := referral.NewService(referral.Config{Server: server.URL, InstallerID: "unknown"}, db, store)
		Expect(service.RefreshAccountReferral(ctx, account)).NotTo(Succeed())
	})

	It("rejects a nil account", func() {
		service := referral.NewService(referral.Config{}, db, store)
		_, err := service.LoadAccountReferral(ctx, nil)
		Expect(err).NotTo(BeNil())
	})
})
