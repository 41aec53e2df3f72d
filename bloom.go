// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pattern

import "hash/fnv"

const bloomHashFunctions = 3

// bloomFilter provides negative lookups for the matcher's static fast
// path: "definitely no static pattern for this path" is answered without
// touching the static table.
//
// FNV-1a with XORed seeds; each uint64 in bits holds 64 filter bits.
type bloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

func newBloomFilter(size uint64, numHashFuncs int) *bloomFilter {
	bf := &bloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		bf.seeds[i] = uint64(i + 1)
	}

	return bf
}

// bloomSizeFor sizes the filter at roughly 10 bits per entry for a ~1%
// false positive rate, clamped to sane bounds.
func bloomSizeFor(entries int) uint64 {
	size := uint64(entries) * 10
	if size < 100 {
		return 100
	}
	if size > 1_000_000 {
		return 1_000_000
	}

	return size
}

func (bf *bloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

func (bf *bloomFilter) add(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// test reports whether the hash might be in the set. Exits on the first
// unset bit: rejection is the common, valuable case.
func (bf *bloomFilter) test(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}

// hashPath computes the FNV-1a hash of a normalized request path, shared
// by the static table and the bloom filter.
func hashPath(path string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))

	return h.Sum64()
}
