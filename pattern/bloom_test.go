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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomFilterMembership(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(1024, 3)

	keys := []string{"GET /", "GET /users", "POST /users", "GET /health"}
	for _, k := range keys {
		bf.Add(k)
	}
	for _, k := range keys {
		assert.True(t, bf.Test(k), "added key %q must test positive", k)
	}
}

func TestBloomFilterNegatives(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(4096, 3)
	for i := range 50 {
		bf.Add(fmt.Sprintf("GET /routes/%d", i))
	}

	// With 50 entries in 4096 bits false positives are rare; a sweep of
	// unknown keys should be overwhelmingly negative.
	misses := 0
	for i := range 1000 {
		if !bf.Test(fmt.Sprintf("GET /missing/%d", i)) {
			misses++
		}
	}
	assert.Greater(t, misses, 950)
}

func TestBloomFilterPrecomputedHash(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(256, 3)
	key := "GET /users/all"
	bf.AddHash(Hash(key))

	assert.True(t, bf.TestHash(Hash(key)))
	assert.Equal(t, bf.Test("GET /nope"), bf.TestHash(Hash("GET /nope")))
}
