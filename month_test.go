// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonths(t *testing.T) {
	assert.Equal(t, Month(0), Months())
	assert.Equal(t, Month(65), Months(January, July))
	assert.Equal(t, Month(65), Months(July, January, July))
	assert.Equal(t, Month(4095), Months(January, February, March, April,
		May, June, July, August, September, October, November, December))
	assert.Equal(t, AllMonths, Month(0xfff))

	assert.Nil(t, Month(0).Split())
	assert.Equal(t, []Month{January, July}, Month(65).Split())
	assert.Equal(t, []Month{December}, (December | 1<<13).Split())
	assert.Len(t, AllMonths.Split(), 12)
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "none", Month(0).String())
	assert.Equal(t, "January|July", Months(July, January).String())
	assert.Equal(t, "December|invalid", (December | 1<<15).String())
}
