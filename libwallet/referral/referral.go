// Package referral keeps the promotion data an account was created under.
// The data is cached locally and refreshed from the referral server.
package referral

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/session"
)

const referralBucket = "account_referral"

// Referral is the attribution of an account.
type Referral struct {
	InstallerID string `json:"installerId,omitempty"`
	// CurrencyCodes are the "PARENT" or "PARENT:TOKEN" codes a new account
	// should get wallets for.
	CurrencyCodes []string  `json:"currencyCodes,omitempty"`
	CreationDate  time.Time `json:"creationDate"`
	RefreshedAt   time.Time `json:"refreshedAt,omitempty"`
}

// Config configures a Service.
type Config struct {
	// Server is the base URL of the referral server. Refreshing is a no op
	// without one.
	Server string
	// InstallerID identifies the install that brought this device in.
	InstallerID string
	// CurrencyCodes is the wallet list of the install referral. When empty
	// it is fetched from Server for accounts that have no referral yet.
	CurrencyCodes []string
}

type serverReply struct {
	CurrencyCodes []string `json:"currencyCodes"`
}

// Service loads and refreshes account referrals.
type Service struct {
	cfg        Config
	node       storm.Node
	client     *utils.Client
	dispatcher session.Dispatcher
}

func NewService(cfg Config, node storm.Node, dispatcher session.Dispatcher) *Service {
	return &Service{
		cfg:        cfg,
		node:       node.From(referralBucket),
		client:     utils.NewClient(),
		dispatcher: dispatcher,
	}
}

// load returns the stored referral of username and whether there is one.
func (s *Service) load(username string) (*Referral, bool, error) {
	ref := new(Referral)
	err := s.node.Get(referralBucket, username, ref)
	if err == storm.ErrNotFound {
		return &Referral{InstallerID: s.cfg.InstallerID, CreationDate: time.Now()}, false, nil
	}
	if err != nil {
		return nil, false, utils.TranslateError(err)
	}
	return ref, true, nil
}

// fetch asks the referral server for the wallet list of installerID.
func (s *Service) fetch(ctx context.Context, installerID string) ([]string, error) {
	var reply serverReply
	reqConfig := &utils.ReqConfig{
		Method:   http.MethodGet,
		HTTPURL:  strings.TrimSuffix(s.cfg.Server, "/") + "/referral/" + url.PathEscape(installerID),
		IsActive: true,
	}
	if err := s.client.Do(ctx, reqConfig, &reply); err != nil {
		return nil, fmt.Errorf("%s: %w", utils.ErrReferralUnavailable, err)
	}
	return reply.CurrencyCodes, nil
}

// seed fills a new account referral from the install referral. A server
// failure leaves the wallet list empty.
func (s *Service) seed(ctx context.Context, ref *Referral) {
	ref.CurrencyCodes = append([]string(nil), s.cfg.CurrencyCodes...)
	if len(ref.CurrencyCodes) > 0 || s.cfg.Server == "" || ref.InstallerID == "" {
		return
	}

	codes, err := s.fetch(ctx, ref.InstallerID)
	if err != nil {
		log.Warnf("Unable to fetch the install referral: %v", err)
		return
	}
	ref.CurrencyCodes = codes
	ref.RefreshedAt = time.Now()
}

func (s *Service) publish(ref *Referral) {
	s.dispatcher.Dispatch(session.Action{
		Type: session.AccountReferralLoaded,
		Data: session.ReferralData{
			InstallerID:   ref.InstallerID,
			CurrencyCodes: append([]string(nil), ref.CurrencyCodes...),
		},
	})
}

// LoadAccountReferral returns the cached referral of the account. An
// account without one gets the install referral, which is then cached.
func (s *Service) LoadAccountReferral(ctx context.Context, account sdk.Account) (*Referral, error) {
	if account == nil {
		return nil, utils.ErrNilAccount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, found, err := s.load(account.Username())
	if err != nil {
		return nil, err
	}
	if !found {
		s.seed(ctx, ref)
		if err := s.node.Set(referralBucket, account.Username(), ref); err != nil {
			return nil, utils.TranslateError(err)
		}
		log.Debugf("Seeded referral of %s: %v", account.Username(), ref.CurrencyCodes)
	}
	s.publish(ref)
	return ref, nil
}

// RefreshAccountReferral fetches the referral of this install from the
// server and caches it for the account.
func (s *Service) RefreshAccountReferral(ctx context.Context, account sdk.Account) error {
	if account == nil {
		return utils.ErrNilAccount
	}
	if s.cfg.Server == "" {
		log.Debug("No referral server configured, skipping refresh")
		return nil
	}

	ref, _, err := s.load(account.Username())
	if err != nil {
		return err
	}
	if ref.InstallerID == "" {
		return nil
	}

	codes, err := s.fetch(ctx, ref.InstallerID)
	if err != nil {
		return err
	}

	ref.CurrencyCodes = codes
	ref.RefreshedAt = time.Now()
	if err := s.node.Set(referralBucket, account.Username(), ref); err != nil {
		return utils.TranslateError(err)
	}

	log.Debugf("Refreshed referral of %s: %v", account.Username(), ref.CurrencyCodes)
	s.publish(ref)
	return nil
}
