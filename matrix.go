package stratum

import "math"

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Affine is a value type; every method returns a new matrix.
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// TranslationAffine returns a matrix that translates by (x, y).
func TranslationAffine(x, y float64) Affine { return Affine{1, 0, 0, 1, x, y} }

// ScaleAffine returns a matrix that scales by (sx, sy).
func ScaleAffine(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// RotationAffine returns a matrix that rotates by r radians.
func RotationAffine(r float64) Affine {
	sin, cos := math.Sincos(r)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Apply returns m * o (o is applied to points first).
func (m Affine) Apply(o Affine) Affine { return multiplyAffine(m, o) }

// PreApply returns o * m (m is applied to points first).
func (m Affine) PreApply(o Affine) Affine { return multiplyAffine(o, m) }

// Translate returns m * Translate(x, y).
func (m Affine) Translate(x, y float64) Affine { return multiplyAffine(m, TranslationAffine(x, y)) }

// Rotate returns m * Rotate(r), r in radians.
func (m Affine) Rotate(r float64) Affine { return multiplyAffine(m, RotationAffine(r)) }

// Scale returns m * Scale(sx, sy).
func (m Affine) Scale(sx, sy float64) Affine { return multiplyAffine(m, ScaleAffine(sx, sy)) }

// Invert returns the inverse of m, or the identity if m is singular.
func (m Affine) Invert() Affine { return invertAffine(m) }

// TransformPoint applies m to p.
func (m Affine) TransformPoint(p Vec2) Vec2 {
	x, y := transformPoint(m, p.X, p.Y)
	return Vec2{x, y}
}

// Determinant returns ad - cb.
func (m Affine) Determinant() float64 { return m[0]*m[3] - m[2]*m[1] }

// multiplyAffine multiplies two affine matrices: result = p * c.
func multiplyAffine(p, c Affine) Affine {
	return Affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the identity matrix if the determinant is ~0.
func invertAffine(m Affine) Affine {
	det := m.Determinant()
	// Relative to the magnitude of the linear part, so uniformly tiny
	// scales still invert.
	mag := math.Abs(m[0]*m[3]) + math.Abs(m[1]*m[2])
	if det == 0 || math.Abs(det) <= 1e-12*mag {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

func transformPoint(m Affine, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
