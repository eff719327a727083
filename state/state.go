// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/stackedmap"
)

const (
	accountBucket kv.Bucket = "a"
	storageBucket kv.Bucket = "s"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

type (
	accountKey meridian.Address
	storageKey struct {
		addr meridian.Address
		key  meridian.Bytes32
	}
)

// State manages the world state: per-account balances, raw data records and
// storage slots. All mutations are journaled and can be reverted to a
// checkpoint, then staged into the backing kv store in one batch.
type State struct {
	kv kv.GetPutter
	sm *stackedmap.StackedMap
}

// New creates a state object backed by the given kv store.
func New(store kv.GetPutter) *State {
	state := State{kv: store}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.cacheGetter(key)
	})
	// base layer, never popped
	state.sm.Push()
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case accountKey:
		acc, err := s.loadAccount(meridian.Address(k))
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		raw, err := s.loadStorage(k)
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadAccount(addr meridian.Address) (Account, error) {
	data, err := accountBucket.NewGetter(s.kv).Get(addr.Bytes())
	if err != nil {
		if s.kv.IsNotFound(err) {
			return Account{}, nil
		}
		return Account{}, &Error{err}
	}
	var acc Account
	if err := rlp.DecodeBytes(data, &acc); err != nil {
		return Account{}, &Error{err}
	}
	return acc, nil
}

func (s *State) loadStorage(key storageKey) ([]byte, error) {
	raw, err := storageBucket.NewGetter(s.kv).Get(append(key.addr.Bytes(), key.key.Bytes()...))
	if err != nil {
		if s.kv.IsNotFound(err) {
			return nil, nil
		}
		return nil, &Error{err}
	}
	return raw, nil
}

func (s *State) getAccount(addr meridian.Address) (Account, error) {
	v, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return Account{}, err
	}
	return v.(Account), nil
}

// GetBalance returns the balance of the account.
func (s *State) GetBalance(addr meridian.Address) (uint64, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// SetBalance sets the balance of the account.
func (s *State) SetBalance(addr meridian.Address, balance uint64) error {
	acc, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	acc.Balance = balance
	s.sm.Put(accountKey(addr), acc)
	return nil
}

// GetData returns the raw data record of the account.
// Empty accounts yield nil.
func (s *State) GetData(addr meridian.Address) ([]byte, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	if len(acc.Data) == 0 {
		return nil, nil
	}
	cpy := make([]byte, len(acc.Data))
	copy(cpy, acc.Data)
	return cpy, nil
}

// SetData replaces the raw data record of the account.
func (s *State) SetData(addr meridian.Address, data []byte) error {
	acc, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	acc.Data = data
	s.sm.Put(accountKey(addr), acc)
	return nil
}

// GetStorage returns the raw value stored at (addr, key). Missing slots yield nil.
func (s *State) GetStorage(addr meridian.Address, key meridian.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]byte), nil
}

// SetStorage stores the raw value at (addr, key). A nil or empty value clears the slot.
func (s *State) SetStorage(addr meridian.Address, key meridian.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// NewCheckpoint makes a checkpoint of the current state.
// It returns the checkpoint which can be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts the state to the given checkpoint.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Stage collects all journaled changes so they can be committed to the
// backing store in one batch.
func (s *State) Stage() *Stage {
	accounts := make(map[meridian.Address]Account)
	storages := make(map[storageKey][]byte)

	s.sm.Journal(func(key, value any) bool {
		switch k := key.(type) {
		case accountKey:
			accounts[meridian.Address(k)] = value.(Account)
		case storageKey:
			if value == nil {
				storages[k] = nil
			} else {
				storages[k] = value.([]byte)
			}
		}
		return true
	})
	return &Stage{kv: s.kv, accounts: accounts, storages: storages}
}
