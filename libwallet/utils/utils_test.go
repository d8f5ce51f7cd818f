package utils_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/asdine/storm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/crypto-power/walletinit/libwallet/utils"
)

var _ = DescribeTable("ToNetworkType",
	func(in string, want utils.NetworkType) {
		Expect(utils.ToNetworkType(in)).To(Equal(want))
	},
	Entry("mainnet", "mainnet", utils.Mainnet),
	Entry("testnet alias", "TestNet", utils.Testnet),
	Entry("regnet", "regnet", utils.Regression),
	Entry("simnet", "simnet", utils.Simulation),
	Entry("garbage", "moon", utils.Unknown),
)

var _ = Describe("NetworkType.Display", func() {
	It("title cases the network", func() {
		Expect(utils.Mainnet.Display()).To(Equal("Mainnet"))
		Expect(utils.Testnet.Display()).To(Equal("Testnet"))
	})
})

var _ = Describe("TranslateError", func() {
	It("maps storm errors to error codes", func() {
		Expect(utils.TranslateError(nil)).To(BeNil())
		Expect(utils.TranslateError(storm.ErrNotFound)).To(MatchError(utils.ErrNotExist))
		Expect(utils.TranslateError(storm.ErrAlreadyExists)).To(MatchError(utils.ErrExist))
	})

	It("returns unknown errors unchanged", func() {
		err := utils.ErrUnknownPlugin("wallet:monero")
		Expect(utils.TranslateError(err)).To(BeIdenticalTo(err))
	})
})

var _ = Describe("Client", func() {
	var server *httptest.Server

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ok" {
				http.Error(w, "nope", http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"name":"walletinit"}`))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("decodes a successful response", func() {
		var resp struct {
			Name string `json:"name"`
		}
		err := utils.NewClient().Do(context.Background(), &utils.ReqConfig{
			Method:   http.MethodGet,
			HTTPURL:  server.URL + "/ok",
			IsActive: true,
		}, &resp)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Name).To(Equal("walletinit"))
	})

	It("fails on non 200 responses", func() {
		var resp map[string]interface{}
		err := utils.NewClient().Do(context.Background(), &utils.ReqConfig{
			Method:   http.MethodGet,
			HTTPURL:  server.URL + "/missing",
			IsActive: true,
		}, &resp)
		Expect(err).To(HaveOccurred())
	})

	It("refuses calls the user did not allow", func() {
		var resp map[string]interface{}
		err := utils.NewClient().Do(context.Background(), &utils.ReqConfig{
			Method:  http.MethodGet,
			HTTPURL: server.URL + "/ok",
		}, &resp)
		Expect(err).To(HaveOccurred())
	})
})
