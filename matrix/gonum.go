// SPDX-License-Identifier: MIT

package matrix

import "gonum.org/v1/gonum/mat"

const (
	opFromGonum = "FromGonum"
	opToGonum   = "ToGonum"
)

// FromGonum copies any gonum matrix into a new Dense.
// Fails with ErrNaNInf when the source holds non-finite values.
func FromGonum(src mat.Matrix) (*Dense, error) {
	if src == nil {
		return nil, matrixErrorf(opFromGonum, ErrNilMatrix)
	}
	r, c := src.Dims()
	buf := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			buf[i*c+j] = src.At(i, j)
		}
	}
	d, err := NewDenseFrom(r, c, buf)
	if err != nil {
		return nil, matrixErrorf(opFromGonum, err)
	}

	return d, nil
}

// ToGonum copies m into a new *mat.Dense.
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	buf := make([]float64, len(d.data))
	copy(buf, d.data)

	return mat.NewDense(d.r, d.c, buf), nil
}
