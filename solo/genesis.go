// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/runtime"
	"github.com/meridianchain/meridian/staking"
)

// GenesisAccount seeds one account balance.
type GenesisAccount struct {
	Address meridian.Address `yaml:"address"`
	Balance uint64           `yaml:"balance"`
}

// Genesis declares the initial setup of a solo host: the staking authority,
// the two vaults, and seeded balances.
type Genesis struct {
	Authority   meridian.Address `yaml:"authority"`
	StakeVault  meridian.Address `yaml:"stakeVault"`
	RewardVault meridian.Address `yaml:"rewardVault"`
	Accounts    []GenesisAccount `yaml:"accounts"`
}

// LoadGenesis reads a genesis declaration from a yaml file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gene Genesis
	if err := yaml.Unmarshal(data, &gene); err != nil {
		return nil, errors.Wrap(err, "parse genesis file")
	}
	if gene.Authority.IsZero() {
		return nil, errors.New("genesis: authority is required")
	}
	return &gene, nil
}

// ApplyGenesis seeds balances and initializes the staking manager. It is a
// no-op when the manager is already initialized, so restarting on an
// existing data dir is safe.
func (s *Solo) ApplyGenesis(gene *Genesis) error {
	if _, err := s.Manager(); err == nil {
		logger.Debug("genesis already applied")
		return nil
	} else if !errors.Is(err, staking.ErrUninitialized) {
		return err
	}

	s.mu.Lock()
	for _, acc := range gene.Accounts {
		if err := s.state.SetBalance(acc.Address, acc.Balance); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if err := s.state.Stage().Commit(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	call := &runtime.Call{
		Op:      runtime.OpInitialize,
		Caller:  gene.Authority,
		Payload: runtime.InitializePayload(gene.StakeVault, gene.RewardVault),
	}
	if _, err := s.Execute(call, gene.Authority); err != nil {
		return errors.Wrap(err, "apply genesis")
	}
	logger.Info("applied genesis", "authority", gene.Authority, "accounts", len(gene.Accounts))
	return nil
}
