package domain

// StateVector is the complex amplitude vector of an n-qubit state, indexed
// by basis state using the Register bit layout.
type StateVector []complex128

// Norm2 returns the squared norm of the state.
func (s StateVector) Norm2() float64 {
	var n float64
	for _, a := range s {
		n += real(a)*real(a) + imag(a)*imag(a)
	}
	return n
}

// Clone returns an independent copy of the state.
func (s StateVector) Clone() StateVector {
	out := make(StateVector, len(s))
	copy(out, s)
	return out
}
