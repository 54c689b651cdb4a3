package gan_go

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix Dense row-major matrix with a flat float64 backing slice.
// The same slice backs the embedded gonum mat.Dense, so BLAS-powered
// multiplication and direct elementwise loops see identical storage.
type Matrix struct {
	rows, cols int
	data       []float64
	dense      *mat.Dense
}

// NewMatrix Returns zero-valued matrix of the given shape.
// gonum rejects zero-sized dimensions, so an empty matrix carries no dense
// wrapper; it still answers shape queries and elementwise operations.
func NewMatrix(rows, cols int) *Matrix {
	data := make([]float64, rows*cols)
	m := &Matrix{
		rows: rows,
		cols: cols,
		data: data,
	}
	if rows > 0 && cols > 0 {
		m.dense = mat.NewDense(rows, cols, data)
	}
	return m
}

// NewMatrixFromSlice Wraps existing backing data without copying.
// Length of provided slice must be rows*cols exactly.
func NewMatrixFromSlice(rows, cols int, data []float64) (*Matrix, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("Backing slice must have %d elements, but got %d", rows*cols, len(data))
	}
	m := &Matrix{
		rows: rows,
		cols: cols,
		data: data,
	}
	if rows > 0 && cols > 0 {
		m.dense = mat.NewDense(rows, cols, data)
	}
	return m, nil
}

// Rows Returns number of rows
func (m *Matrix) Rows() int { return m.rows }

// Cols Returns number of columns
func (m *Matrix) Cols() int { return m.cols }

// At Returns element at position (i, j)
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Set Sets element at position (i, j)
func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Data Returns reference to backing slice
func (m *Matrix) Data() []float64 { return m.data }

// Clone Returns deep copy of matrix
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Reset Sets every element to zero
func (m *Matrix) Reset() {
	for i := range m.data {
		m.data[i] = 0.0
	}
}

// Fill Sets every element to v
func (m *Matrix) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// XavierInit Fills matrix with Xavier-uniform values drawn from the provided
// generator: U(-limit, +limit) with limit = sqrt(6 / (fan_in + fan_out)).
// Explicit *rand.Rand keeps initialization reproducible per training session.
func (m *Matrix) XavierInit(rng *rand.Rand) {
	limit := math.Sqrt(6.0 / float64(m.rows+m.cols))
	for i := range m.data {
		m.data[i] = (rng.Float64()*2 - 1) * limit
	}
}

// AddVector Adds row vector v to every row of the matrix (bias broadcast)
func (m *Matrix) AddVector(v *Matrix) {
	for i := 0; i < m.rows; i++ {
		rowOffset := i * m.cols
		for j := 0; j < m.cols; j++ {
			m.data[rowOffset+j] += v.data[j]
		}
	}
}

// Scale Multiplies every element by c
func (m *Matrix) Scale(c float64) {
	floats.Scale(c, m.data)
}

// Add Adds other matrix elementwise
func (m *Matrix) Add(other *Matrix) {
	floats.Add(m.data, other.data)
}

// MatMul Computes out = a·b. Output matrix must be preallocated with matching shape.
func MatMul(a, b mat.Matrix, out *Matrix) {
	out.dense.Mul(a, b)
}

// GobEncode Implements gob.GobEncoder
func (m *Matrix) GobEncode() ([]byte, error) {
	w := new(bytes.Buffer)
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(m.rows); err != nil {
		return nil, err
	}
	if err := encoder.Encode(m.cols); err != nil {
		return nil, err
	}
	if err := encoder.Encode(m.data); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// GobDecode Implements gob.GobDecoder
func (m *Matrix) GobDecode(buf []byte) error {
	r := bytes.NewBuffer(buf)
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(&m.rows); err != nil {
		return err
	}
	if err := decoder.Decode(&m.cols); err != nil {
		return err
	}
	if err := decoder.Decode(&m.data); err != nil {
		return err
	}
	// Re-create the gonum wrapper after loading data
	if m.rows > 0 && m.cols > 0 {
		m.dense = mat.NewDense(m.rows, m.cols, m.data)
	}
	return nil
}
