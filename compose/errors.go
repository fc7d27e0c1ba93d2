// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import "fmt"

// NotPowerOfTwoError reports a truth table whose length is not a power
// of two.
type NotPowerOfTwoError struct {
	Count int
}

func (e *NotPowerOfTwoError) Error() string {
	return fmt.Sprintf("expected a power of two as number of inputs, but got %d inputs", e.Count)
}

// ParseError reports a permutation token that is not an unsigned
// integer.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing permutation element %q, expected list of unsigned integers but got error: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OutOfRangeError reports a permutation value beyond the sequence
// length.
type OutOfRangeError struct {
	Value uint64
	Bound int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("number '%d' is too large (only %d items provided)", e.Value, e.Bound)
}

// DuplicateValueError reports a permutation value that occurs more than
// once.
type DuplicateValueError struct {
	Value uint64
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("number '%d' occurs more than once", e.Value)
}
