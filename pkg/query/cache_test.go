// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package query

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCachedParser_InvalidSize(t *testing.T) {
	_, err := NewCachedParser(0)
	assert.Error(t, err)
}

func TestCachedParser_Parse(t *testing.T) {
	p, err := NewCachedParser(8)
	require.NoError(t, err)

	first, err := p.Parse("hasitem_id:STONE,amount:3")
	require.NoError(t, err)
	second, err := p.Parse("hasitem_id:STONE,amount:3")
	require.NoError(t, err)

	assert.Same(t, first, second, "cached query should be reused")
	assert.Equal(t, 1, p.Len())
}

func TestCachedParser_CachesErrors(t *testing.T) {
	p, err := NewCachedParser(8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		q, err := p.Parse("hasitem_amount:abc")
		assert.Nil(t, q)
		assert.True(t, stderrors.Is(err, ErrMalformed))
	}
	assert.Equal(t, 1, p.Len())
}

func TestCachedParser_Evicts(t *testing.T) {
	p, err := NewCachedParser(2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := p.Parse(fmt.Sprintf("x_amount:%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, p.Len())

	p.Purge()
	assert.Equal(t, 0, p.Len())
}

func TestCachedParser_Concurrent(t *testing.T) {
	p, err := NewCachedParser(16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := p.Parse(fmt.Sprintf("x_id:STONE,amount:%d", i%4))
			assert.NoError(t, err)
			assert.Equal(t, uint(i%4), q.Amount)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, p.Len())
}

func TestDefaultParser(t *testing.T) {
	var p Parser = DefaultParser{}
	q, err := p.Parse("x_id:STONE")
	require.NoError(t, err)
	assert.Equal(t, "STONE", *q.Material)
}
