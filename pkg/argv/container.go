// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
	"reflect"

	"tailscale.com/util/set"
)

// Container selects how an accumulating slot stores repeated values.
type Container int

const (
	// List keeps every value in input order as a []any.
	List Container = iota + 1
	// Counter counts successful decodes as an int.
	Counter
	// Set keeps distinct values in first-seen order as a *ValueSet.
	Set
)

func (k Container) String() string {
	switch k {
	case List:
		return "list"
	case Counter:
		return "counter"
	case Set:
		return "set"
	}
	return fmt.Sprintf("Container(%d)", int(k))
}

func (k Container) valid() bool {
	return k >= List && k <= Set
}

// empty returns the zero container value stored before any decode.
func (k Container) empty() any {
	switch k {
	case List:
		return []any{}
	case Counter:
		return 0
	case Set:
		return new(ValueSet)
	}
	return nil
}

// add merges v into acc and returns the updated container value.
func (k Container) add(acc, v any) any {
	switch k {
	case List:
		return append(acc.([]any), v)
	case Counter:
		return acc.(int) + 1
	case Set:
		s := acc.(*ValueSet)
		s.Add(v)
		return s
	}
	return acc
}

// ValueSet is an insertion-ordered set of decoded values. Values that are
// not comparable (slices, for instance) are keyed by their printed form.
type ValueSet struct {
	seen   set.Set[any]
	values []any
}

func setKey(v any) any {
	if v == nil {
		return nil
	}
	if reflect.TypeOf(v).Comparable() {
		// Arrays and structs can still hold non-comparable interface values.
		if ok := comparableValue(reflect.ValueOf(v)); ok {
			return v
		}
	}
	return printedKey(fmt.Sprintf("%T:%#v", v, v))
}

// printedKey keys a non-comparable value apart from any decoded string.
type printedKey string

func comparableValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return comparableValue(rv.Elem())
	case reflect.Array:
		for i := range rv.Len() {
			if !comparableValue(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range rv.NumField() {
			if !comparableValue(rv.Field(i)) {
				return false
			}
		}
		return true
	}
	return rv.Type().Comparable()
}

// Add inserts v and reports whether it was not already present.
func (s *ValueSet) Add(v any) bool {
	k := setKey(v)
	if s.seen.Contains(k) {
		return false
	}
	if s.seen == nil {
		s.seen = make(set.Set[any])
	}
	s.seen.Add(k)
	s.values = append(s.values, v)
	return true
}

// Contains reports whether v has been added.
func (s *ValueSet) Contains(v any) bool {
	if s == nil {
		return false
	}
	return s.seen.Contains(setKey(v))
}

// Len reports the number of distinct values.
func (s *ValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns the distinct values in first-seen order.
func (s *ValueSet) Values() []any {
	if s == nil {
		return nil
	}
	return append([]any(nil), s.values...)
}
