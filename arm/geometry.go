// Package arm models the two-link pantograph arm: the geometry
// relating pen position to the shoulder and elbow servo angles, and
// the per-servo calibration from angle to pulse-width.
package arm

import (
	"fmt"
	"math"
)

// Geometry holds the fixed lengths of the two arm links: the inner
// arm from the shoulder pivot to the elbow, and the outer arm from
// the elbow to the pen. Both must be positive.
type Geometry struct {
	Inner, Outer float64
}

// UnreachableError reports a target position outside the annulus
// the arm can reach.
type UnreachableError struct {
	X, Y float64
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("position (%g, %g) is out of reach of the arm", e.X, e.Y)
}

// Parked returns the rest position of the arm: shoulder at -90
// degrees and elbow at +90, which puts the pen at (-inner, outer).
func (g Geometry) Parked() (x, y float64) {
	return -g.Inner, g.Outer
}

// Angles converts a pen position into motor angles, in degrees.
// The shoulder angle is measured from vertical, the elbow angle is
// the bend between the two links.
//
// It fails with an *UnreachableError if the position is outside
// the annulus |inner-outer| <= dist <= inner+outer around the
// shoulder pivot, or at the pivot itself.
func (g Geometry) Angles(x, y float64) (shoulder, elbow float64, err error) {
	hypotenuse := math.Sqrt(x*x + y*y)
	if hypotenuse == 0 {
		return 0, 0, &UnreachableError{X: x, Y: y}
	}
	hypotenuseAngle := math.Asin(x / hypotenuse)

	ia := (hypotenuse*hypotenuse + g.Inner*g.Inner - g.Outer*g.Outer) / (2 * hypotenuse * g.Inner)
	oa := (g.Inner*g.Inner + g.Outer*g.Outer - hypotenuse*hypotenuse) / (2 * g.Inner * g.Outer)
	if ia < -1 || ia > 1 || oa < -1 || oa > 1 {
		return 0, 0, &UnreachableError{X: x, Y: y}
	}
	innerAngle := math.Acos(ia)
	outerAngle := math.Acos(oa)

	shoulder = degrees(hypotenuseAngle - innerAngle)
	elbow = degrees(math.Pi - outerAngle)
	return shoulder, elbow, nil
}

// XY converts motor angles (degrees) back into a pen position.
// It is the inverse of Angles for any reachable position.
func (g Geometry) XY(shoulder, elbow float64) (x, y float64) {
	sr := radians(shoulder)
	er := radians(elbow)

	hypotenuse := math.Sqrt(g.Inner*g.Inner + g.Outer*g.Outer - 2*g.Inner*g.Outer*math.Cos(math.Pi-er))
	baseAngle := math.Acos((hypotenuse*hypotenuse + g.Inner*g.Inner - g.Outer*g.Outer) / (2 * hypotenuse * g.Inner))
	innerAngle := baseAngle + sr

	x = math.Sin(innerAngle) * hypotenuse
	y = math.Cos(innerAngle) * hypotenuse
	return x, y
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
