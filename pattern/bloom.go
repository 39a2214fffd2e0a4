// Copyright 2026 The Strada Authors
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

// BloomFilter is a fixed-size bloom filter used as a negative cache in
// front of the static route table: a false result means the key is
// definitely not registered, so the table lookup can be skipped. False
// positives fall through to the table and are harmless.
type BloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

// NewBloomFilter creates a filter with the given number of bits and
// hash functions. The hash functions are FNV-1a variants derived by
// seed XOR, so adding and testing hash the input once.
func NewBloomFilter(size uint64, hashFuncs int) *BloomFilter {
	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, hashFuncs),
	}
	for i := range hashFuncs {
		bf.seeds[i] = uint64(i + 1)
	}

	return bf
}

// Hash returns the FNV-1a base hash of key, suitable for AddHash and
// TestHash. Callers that already key a map by this hash avoid hashing
// twice.
func Hash(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))

	return h.Sum64()
}

// Add inserts a key.
func (bf *BloomFilter) Add(key string) {
	bf.AddHash(Hash(key))
}

// AddHash inserts a pre-hashed key.
func (bf *BloomFilter) AddHash(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := (baseHash ^ seed) % bf.size
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether key might be present. False is definitive.
func (bf *BloomFilter) Test(key string) bool {
	return bf.TestHash(Hash(key))
}

// TestHash is Test for a pre-hashed key. Exits on the first unset bit
// since misses are the common case on the routing fast path.
func (bf *BloomFilter) TestHash(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := (baseHash ^ seed) % bf.size
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}
