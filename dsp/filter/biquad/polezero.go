package biquad

import "math/cmplx"

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() [2]complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// Zeros returns the z-plane zeros of the section numerator:
//
//	B0 + B1*z^-1 + B2*z^-2 = 0
func (c *Coefficients) Zeros() [2]complex128 {
	return quadraticRoots(c.B0, c.B1, c.B2)
}

// Stable reports whether every section pole lies strictly inside the unit circle.
func (c *Chain) Stable() bool {
	for i := range c.sections {
		for _, p := range c.sections[i].Poles() {
			if cmplx.Abs(p) >= 1 {
				return false
			}
		}
	}

	return true
}

func quadraticRoots(a, b, c float64) [2]complex128 {
	if a == 0 {
		if b == 0 {
			return [2]complex128{}
		}
		return [2]complex128{complex(-c/b, 0), 0}
	}

	discriminant := complex(b*b-4*a*c, 0)
	sqrtDiscriminant := cmplx.Sqrt(discriminant)
	den := complex(2*a, 0)
	return [2]complex128{
		(-complex(b, 0) + sqrtDiscriminant) / den,
		(-complex(b, 0) - sqrtDiscriminant) / den,
	}
}
