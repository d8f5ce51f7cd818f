package login_test

import (
	"github.com/crypto-power/walletinit/login"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocaleFiat", func() {
	It("uses the first locale with a region currency", func() {
		fiat, ok := login.LocaleFiat([]string{"not a locale!", "ja-JP", "de-DE"})
		Expect(ok).To(BeTrue())
		Expect(fiat).To(Equal("JPY"))
	})

	It("finds nothing without locales", func() {
		_, ok := login.LocaleFiat(nil)
		Expect(ok).To(BeFalse())
	})
})
