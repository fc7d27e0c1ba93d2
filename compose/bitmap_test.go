// Copyright 2024 The Composer Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package compose

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapWidths(t *testing.T) {
	for _, tc := range []struct {
		table   []uint64
		in, out int
	}{
		{[]uint64{}, 0, 0},
		{[]uint64{1}, 0, 1},
		{[]uint64{0, 0}, 1, 0},
		{[]uint64{0, 1, 1, 1}, 2, 1},
		{[]uint64{0, 1, 2, 1}, 2, 2},
		{[]uint64{0, 1, 2, 3}, 2, 2},
		{[]uint64{0, 4, 2, 3}, 2, 3},
	} {
		in, out, err := bitmapWidths(tc.table)
		require.NoError(t, err, "table %v", tc.table)
		assert.Equal(t, tc.in, in, "inputs for %v", tc.table)
		assert.Equal(t, tc.out, out, "outputs for %v", tc.table)
	}
}

func TestBitmapNotPowerOfTwo(t *testing.T) {
	_, _, err := bitmapWidths([]uint64{1, 1, 1})
	require.Error(t, err)
	var npot *NotPowerOfTwoError
	require.ErrorAs(t, err, &npot)
	assert.Equal(t, 3, npot.Count)
	assert.Equal(t, "expected a power of two as number of inputs, but got 3 inputs", err.Error())

	_, err = Bitmap([]uint64{0, 1, 2, 3, 4})
	require.ErrorAs(t, err, &npot)
	assert.Equal(t, 5, npot.Count)
}

// checkBitmap synthesizes the table and evaluates every row against it.
func checkBitmap(t *testing.T, table []uint64) {
	t.Helper()
	c, err := Bitmap(table)
	require.NoError(t, err)
	inputBits, outputBits, err := bitmapWidths(table)
	require.NoError(t, err)
	require.Equal(t, outputBits, c.NumOutputs())

	for r, v := range table {
		assignment := make(map[string]bool, inputBits)
		for b := 0; b < inputBits; b++ {
			assignment[fmt.Sprintf("i%d", b)] = r&(1<<uint(b)) != 0
		}
		want := make([]bool, outputBits)
		for b := 0; b < outputBits; b++ {
			want[b] = v&(1<<uint(b)) != 0
		}
		assert.Equal(t, want, c.Eval(assignment), "row %d of %v", r, table)
	}
}

func TestBitmapEvaluate(t *testing.T) {
	for _, table := range [][]uint64{
		{},
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
		{1, 7},
		{0, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
		{0, 3, 0, 1},
		{0, 4, 2, 3},
		{7, 6, 5, 4, 3, 2, 1, 0},
	} {
		checkBitmap(t, table)
	}
}

func TestBitmapDegenerate(t *testing.T) {
	c, err := Bitmap(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.NumInputs())
	assert.Equal(t, 0, c.NumOutputs())

	c, err = Bitmap([]uint64{1})
	require.NoError(t, err)
	assert.Equal(t, 0, c.NumInputs())
	assert.Equal(t, 1, c.NumOutputs())
	assert.Equal(t, []bool{true}, c.Eval(nil))
}

func TestBitmapInputOrder(t *testing.T) {
	c, err := Bitmap([]uint64{0, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"i0", "i1"}, c.Inputs())
	assert.Equal(t, []string{""}, c.OutputNames())
}

func TestBitmapConstantFoldKeepsInputs(t *testing.T) {
	// A tautological table folds its output to a constant; the declared
	// inputs must survive anyway.
	c, err := Bitmap([]uint64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"i0"}, c.Inputs())
	assert.Equal(t, []bool{true}, c.Eval(map[string]bool{"i0": false}))
	assert.Equal(t, []bool{true}, c.Eval(map[string]bool{"i0": true}))

	// An all-zero table has no outputs at all, but still one input.
	c, err = Bitmap([]uint64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"i0"}, c.Inputs())
	assert.Equal(t, 0, c.NumOutputs())
}
