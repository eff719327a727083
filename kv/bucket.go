// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides a logical bucket for a kv store by prefixing all keys.
type Bucket string

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	return g.src.Get(g.b.makeKey(key))
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	return g.src.Has(g.b.makeKey(key))
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

func (g *bucketGetter) NewIterator(r Range) Iterator {
	from := g.b.makeKey(r.From)
	var to []byte
	if len(r.To) == 0 {
		to = util.BytesPrefix([]byte(g.b)).Limit
	} else {
		to = g.b.makeKey(r.To)
	}
	return g.src.NewIterator(Range{From: from, To: to})
}

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, value []byte) error {
	return p.src.Put(p.b.makeKey(key), value)
}

func (p *bucketPutter) Delete(key []byte) error {
	return p.src.Delete(p.b.makeKey(key))
}

func (p *bucketPutter) NewBatch() Batch {
	return &bucketBatch{p.b, p.src.NewBatch()}
}

type bucketBatch struct {
	b   Bucket
	src Batch
}

func (b *bucketBatch) Put(key, value []byte) error {
	return b.src.Put(b.b.makeKey(key), value)
}

func (b *bucketBatch) Delete(key []byte) error {
	return b.src.Delete(b.b.makeKey(key))
}

func (b *bucketBatch) NewBatch() Batch {
	return &bucketBatch{b.b, b.src.NewBatch()}
}

func (b *bucketBatch) Len() int {
	return b.src.Len()
}

func (b *bucketBatch) Write() error {
	return b.src.Write()
}

func (b Bucket) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewGetPutter creates a bucket get-putter from the source get-putter.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{b.NewGetter(src), b.NewPutter(src)}
}
