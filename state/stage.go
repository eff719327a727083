// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/meridian"
)

// Stage abstracts pending changes against the backing kv store.
type Stage struct {
	kv       kv.GetPutter
	accounts map[meridian.Address]Account
	storages map[storageKey][]byte
}

// Commit writes all staged changes into the backing store in one batch.
func (st *Stage) Commit() error {
	batch := st.kv.NewBatch()
	accounts := accountBucket.NewPutter(batch)
	storages := storageBucket.NewPutter(batch)

	for addr, acc := range st.accounts {
		if acc.IsEmpty() {
			if err := accounts.Delete(addr.Bytes()); err != nil {
				return &Error{err}
			}
			continue
		}
		data, err := rlp.EncodeToBytes(&acc)
		if err != nil {
			return &Error{err}
		}
		if err := accounts.Put(addr.Bytes(), data); err != nil {
			return &Error{err}
		}
	}

	for key, raw := range st.storages {
		slot := append(key.addr.Bytes(), key.key.Bytes()...)
		if len(raw) == 0 {
			if err := storages.Delete(slot); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := storages.Put(slot, raw); err != nil {
			return &Error{err}
		}
	}

	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
