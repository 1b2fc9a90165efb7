package osmnetwork

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Geodesic computes distance in meters between two [lon, lat] points
type Geodesic interface {
	Distance(p, q orb.Point) float64
}

// Ellipsoid is a reference ellipsoid. Distances are solved with Vincenty's inverse formula.
type Ellipsoid struct {
	// Semi-major axis, meters
	A float64
	// Flattening
	F float64
}

// WGS84 is the World Geodetic System 1984 ellipsoid
var WGS84 = Ellipsoid{
	A: 6378137.0,
	F: 1 / 298.257223563,
}

const (
	vincentyMaxIterations = 200
	vincentyTolerance     = 1e-12
)

// Distance returns geodesic distance between p and q (meters).
// Falls back to haversine for (nearly) antipodal points when iteration does not converge.
func (e Ellipsoid) Distance(p, q orb.Point) float64 {
	if p == q {
		return 0
	}
	a := e.A
	f := e.F
	b := (1 - f) * a

	L := degreesToRadians(q.Lon() - p.Lon())
	U1 := math.Atan((1 - f) * math.Tan(degreesToRadians(p.Lat())))
	U2 := math.Atan((1 - f) * math.Tan(degreesToRadians(q.Lat())))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	converged := false
	for i := 0; i < vincentyMaxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		x := cosU2 * sinLambda
		y := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(x*x + y*y)
		if sinSigma == 0 {
			return 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// Equatorial line
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = L + (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-lambdaPrev) < vincentyTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return geo.DistanceHaversine(p, q)
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	return b * A * (sigma - deltaSigma)
}

// Haversine is spherical distance on mean Earth radius
type Haversine struct{}

func (Haversine) Distance(p, q orb.Point) float64 {
	return geo.DistanceHaversine(p, q)
}

// LineLength returns length of given line (meters)
func LineLength(g Geodesic, line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += g.Distance(line[i-1], line[i])
	}
	return totalLength
}
