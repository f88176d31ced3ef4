package audio

// Curve selects the shape of the envelope's attack and release segments.
type Curve int

const (
	CurveLinear Curve = iota
	CurveExpo
	CurveSCurve
	CurvePump

	numCurves = 4
)

var curveNames = [numCurves]string{"Linear", "Expo", "S-Curve", "Pump"}

func (c Curve) String() string {
	if c < 0 || c >= numCurves {
		return curveNames[CurveLinear]
	}
	return curveNames[c]
}

// shapeCurve maps a phase progress value t in [0,1] to a shaped progress
// value in [0,1]. During attack t runs 0→1 as the gain ducks down; during
// release t runs 0→1 as the gain recovers. Pump is the only curve that
// cares about the direction: its release is a cubic ease-out so recovery
// starts fast and settles, while its attack stays linear.
func shapeCurve(c Curve, t float64, release bool) float64 {
	t = clamp(t, 0, 1)

	switch c {
	case CurveExpo:
		return t * t
	case CurveSCurve:
		return t * t * (3 - 2*t)
	case CurvePump:
		if release {
			inv := 1 - t
			return 1 - inv*inv*inv
		}
		return t
	default:
		return t
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
