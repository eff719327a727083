// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/lvldb"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b1 := kv.Bucket("b1").NewGetPutter(db)
	b2 := kv.Bucket("b2").NewGetPutter(db)

	require.NoError(t, b1.Put([]byte("key"), []byte("one")))
	require.NoError(t, b2.Put([]byte("key"), []byte("two")))

	v, err := b1.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	v, err = b2.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)

	// raw key carries the prefix
	v, err = db.Get([]byte("b1key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	require.NoError(t, b1.Delete([]byte("key")))
	has, err := b1.Has([]byte("key"))
	require.NoError(t, err)
	assert.False(t, has)

	// the other bucket is untouched
	has, err = b2.Has([]byte("key"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketBatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := kv.Bucket("x").NewGetPutter(db)
	batch := b.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v")))
	require.NoError(t, batch.Write())

	v, err := db.Get([]byte("xk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestBucketIterator(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := kv.Bucket("p").NewGetPutter(db)
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	require.NoError(t, db.Put([]byte("q-outside"), []byte("3")))

	var keys []string
	it := b.NewIterator(kv.Range{})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"pa", "pb"}, keys)
}
