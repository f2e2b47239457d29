// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bysquare

import "strings"

// A Month is a set of months, one bit each, as used by standing
// orders.
type Month uint16

const (
	January Month = 1 << iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December

	AllMonths Month = 1<<12 - 1
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June", "July",
	"August", "September", "October", "November", "December",
}

// Months returns the set of the given months.
func Months(m ...Month) Month {
	var set Month
	for _, v := range m {
		set |= v
	}
	return set
}

// Split returns the months of m in calendar order.  Bits outside
// AllMonths are dropped.
func (m Month) Split() []Month {
	var list []Month
	for v := January; v <= December; v <<= 1 {
		if m&v != 0 {
			list = append(list, v)
		}
	}
	return list
}

func (m Month) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for i, v := 0, January; v <= December; i, v = i+1, v<<1 {
		if m&v != 0 {
			names = append(names, monthNames[i])
		}
	}
	if m&^AllMonths != 0 {
		names = append(names, "invalid")
	}
	return strings.Join(names, "|")
}
