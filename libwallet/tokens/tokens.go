// Package tokens keeps the list of tokens enabled on every wallet.
package tokens

import (
	"context"
	"sync"

	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/session"
)

const enabledTokensBucket = "enabled_tokens"

// Service stores enabled token codes per wallet id and publishes every
// change on the session store.
type Service struct {
	mu         sync.Mutex
	node       storm.Node
	dispatcher session.Dispatcher
}

// NewService returns a service storing its lists in the enabled tokens
// bucket of node.
func NewService(node storm.Node, dispatcher session.Dispatcher) *Service {
	return &Service{
		node:       node.From(enabledTokensBucket),
		dispatcher: dispatcher,
	}
}

func (s *Service) load(walletID string) ([]string, error) {
	var codes []string
	err := s.node.Get(enabledTokensBucket, walletID, &codes)
	if err == storm.ErrNotFound {
		return []string{}, nil
	}
	if err != nil {
		return nil, utils.TranslateError(err)
	}
	return codes, nil
}

func (s *Service) save(walletID string, codes []string) error {
	return utils.TranslateError(s.node.Set(enabledTokensBucket, walletID, codes))
}

func (s *Service) publish(walletID string, codes []string) {
	s.dispatcher.Dispatch(session.Action{
		Type: session.UpdateWalletEnabledTokens,
		Data: session.WalletEnabledTokensData{
			WalletID:      walletID,
			EnabledTokens: append([]string(nil), codes...),
		},
	})
}

// SetWalletEnabledTokens adds enable to and removes disable from the token
// list of the wallet. A code in both lists ends up disabled.
func (s *Service) SetWalletEnabledTokens(ctx context.Context, walletID string, enable, disable []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.load(walletID)
	if err != nil {
		return err
	}
	codes = remove(merge(codes, enable), disable)
	if err := s.save(walletID, codes); err != nil {
		return err
	}

	log.Debugf("Wallet %s enabled tokens: %v", walletID, codes)
	s.publish(walletID, codes)
	return nil
}

// CheckEnabledTokensArray makes sure every code in codes is enabled on the
// wallet, keeping the codes that already are.
func (s *Service) CheckEnabledTokensArray(ctx context.Context, walletID string, codes []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enabled, err := s.load(walletID)
	if err != nil {
		return err
	}
	merged := merge(enabled, codes)
	if len(merged) == len(enabled) {
		return nil
	}
	if err := s.save(walletID, merged); err != nil {
		return err
	}
	s.publish(walletID, merged)
	return nil
}

// GetEnabledTokens loads the token list of the wallet and publishes it.
func (s *Service) GetEnabledTokens(ctx context.Context, walletID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	codes, err := s.load(walletID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(walletID, codes)
	return codes, nil
}

// merge appends the codes of add missing from codes, in order.
func merge(codes, add []string) []string {
	seen := make(map[string]bool, len(codes)+len(add))
	out := make([]string, 0, len(codes)+len(add))
	for _, list := range [][]string{codes, add} {
		for _, code := range list {
			if seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

func remove(codes, drop []string) []string {
	if len(drop) == 0 {
		return codes
	}
	skip := make(map[string]bool, len(drop))
	for _, code := range drop {
		skip[code] = true
	}
	out := codes[:0]
	for _, code := range codes {
		if !skip[code] {
			out = append(out, code)
		}
	}
	return out
}
