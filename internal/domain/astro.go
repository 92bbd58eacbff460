package domain

import (
	"math"
	"time"
)

// The astronomical epoch is JD 2451544.5 (2000-01-01T00:00:00 UTC). All
// equilibrium arguments accumulate from this instant, never from the start of
// a prediction window.
var epochJ2000 = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// JulianDay returns the Julian Day number of t.
func JulianDay(t time.Time) float64 {
	return 2451544.5 + daysSinceEpoch(t)
}

func daysSinceEpoch(t time.Time) float64 {
	return t.UTC().Sub(epochJ2000).Hours() / 24.0
}

// AstroState holds the astronomical quantities needed to evaluate every
// constituent at one instant: the equilibrium argument V0 and the nodal
// correction pair (amplitude factor F, phase adjustment U). V0 and U are in
// radians. The state is valid only for the instant it was computed for.
type AstroState struct {
	V0 [NumConstituents]float64
	F  [NumConstituents]float64
	U  [NumConstituents]float64
}

// Arguments computes the full astronomical state at t. The formulas are
// continuous polynomials and trigonometric functions of elapsed time, so any
// instant is accepted; results far outside the 20th-21st centuries are
// mathematically valid but physically less meaningful.
func Arguments(t time.Time) (AstroState, error) {
	if t.IsZero() {
		return AstroState{}, &InputError{Param: "time", Reason: "instant is the zero time"}
	}
	d := daysSinceEpoch(t)

	var st AstroState
	equilibriumArguments(d, &st)
	nodalCorrections(d, &st)
	return st, nil
}

// norm360 reduces an angle in degrees to [0, 360).
func norm360(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// meanLongitudes returns the mean longitudes of the moon (s), sun (h), lunar
// perigee (p) and solar perigee (p1) in degrees, from polynomials in Julian
// centuries T measured from 1900 January 0.5 (Schureman 1976).
func meanLongitudes(d float64) (s, h, p, p1 float64) {
	T := (d + 36524.5) / 36525.0
	s = norm360(270.437 + 481267.892*T + 0.0025*T*T)
	h = norm360(279.697 + 36000.769*T + 0.0003*T*T)
	p = norm360(334.328 + 4069.040*T - 0.0103*T*T)
	p1 = norm360(281.221 + 1.719*T + 0.0005*T*T)
	return s, h, p, p1
}

// equilibriumArguments fills st.V0 with each constituent's equilibrium phase
// angle at d days past the epoch. The fast part of the argument is
// Species*360 degrees per day; the slow part comes from the mean longitudes.
func equilibriumArguments(d float64, st *AstroState) {
	dayFrac := math.Mod(d, 1.0)
	if dayFrac < 0 {
		dayFrac += 1.0
	}
	dphase := 360.0 * dayFrac

	s, h, p, p1 := meanLongitudes(d)
	for i := range Catalog {
		c := &Catalog[i]
		v := float64(c.Species)*dphase +
			c.ArgS*s + c.ArgH*h + c.ArgP*p + c.ArgP1*p1 + c.ArgConst
		st.V0[i] = Deg2Rad(v)
	}
}

// nodalCorrections fills st.F and st.U with the slow (18.6-year lunar node
// cycle) amplitude factors and phase adjustments, per Schureman's tables.
// Constituents in the same nodal family share a formula.
func nodalCorrections(d float64, st *AstroState) {
	T := (d + 36524.5) / 36525.0
	N := Deg2Rad(norm360(259.183 - 1934.142*T + 0.0021*T*T))
	p := Deg2Rad(norm360(334.328 + 4069.040*T - 0.0103*T*T))

	// Inclination of the lunar orbit to the equator and the longitude
	// corrections derived from it.
	I := math.Acos(0.9136949 - 0.035696*math.Cos(N))
	nu := math.Asin(0.0897056 * math.Sin(N) / math.Sin(I))
	xi := math.Atan(math.Cos(I) * math.Tan(nu))
	nup := math.Atan(math.Sin(nu) * math.Sin(2.0*I) /
		(math.Cos(nu)*math.Sin(2.0*I) + 0.3347))
	sinI2 := math.Sin(I) * math.Sin(I)
	nup2 := math.Atan(math.Sin(2.0*nu) * sinI2 /
		(math.Cos(2.0*nu)*sinI2 + 0.0727))

	// P is the longitude of the lunar perigee reckoned from the ascending
	// intersection; it drives the M1 and L2 terms.
	P := p - xi

	sinI := math.Sin(I)
	cosI := math.Cos(I)
	cosHalf := math.Cos(I / 2.0)
	sinHalf := math.Sin(I / 2.0)
	tanHalf := math.Tan(I / 2.0)

	fO1 := sinI * cosHalf * cosHalf / 0.37988
	fM2 := math.Pow(cosHalf, 4) / 0.9154
	fK1 := math.Sqrt(0.8965*math.Sin(2.0*I)*math.Sin(2.0*I) +
		0.6001*math.Sin(2.0*I)*math.Cos(nu) + 0.1006)
	fK2 := math.Sqrt(19.0444*sinI2*sinI2 + 2.7702*math.Cos(2.0*nu)*sinI2 + 0.0981)

	// M1 and L2 carry extra perigee-dependent factors (Schureman 13, 16).
	Qa := math.Sqrt(0.25 + 1.5*cosI*math.Cos(2.0*P)/(cosHalf*cosHalf) +
		2.25*cosI*cosI/math.Pow(cosHalf, 4))
	Q := math.Atan(0.483 * math.Tan(P))
	Ra := math.Sqrt(1.0 - 12.0*tanHalf*tanHalf*math.Cos(2.0*P) +
		36.0*math.Pow(tanHalf, 4))
	R := math.Atan(math.Sin(2.0*P) /
		(1.0/(6.0*tanHalf*tanHalf) - math.Cos(2.0*P)))

	for i := range Catalog {
		var f, u float64
		switch Catalog[i].Family {
		case FamilySolar:
			f, u = 1.0, 0.0
		case FamilyMm:
			f, u = (2.0/3.0-sinI2)/0.5021, 0.0
		case FamilyMSf:
			f, u = fM2, 0.0
		case FamilyMf:
			f, u = sinI2/0.1578, -2.0*xi
		case FamilyO1:
			f, u = fO1, 2.0*xi-nu
		case FamilyM1:
			f, u = fO1*Qa, xi-nu+Q
		case FamilyK1:
			f, u = fK1, -nup
		case FamilyJ1:
			f, u = math.Sin(2.0*I)/0.72137, -nu
		case FamilyOO1:
			f, u = sinI*sinHalf*sinHalf/0.016358, -2.0*xi-nu
		case FamilyM2:
			f, u = fM2, 2.0*xi-2.0*nu
		case FamilyL2:
			f, u = fM2*Ra, 2.0*xi-2.0*nu-R
		case FamilyK2:
			f, u = fK2, -nup2
		case Family2SM2:
			f, u = fM2, -2.0*xi+2.0*nu
		case Family2MK3:
			f, u = fM2*fM2*fK1, 4.0*xi-4.0*nu+nup
		case FamilyM3:
			f, u = math.Pow(cosHalf, 6)/0.8758, 3.0*xi-3.0*nu
		case FamilyMK3:
			f, u = fM2*fK1, 2.0*xi-2.0*nu-nup
		case FamilyM4:
			f, u = fM2*fM2, 4.0*xi-4.0*nu
		case FamilyMS4:
			f, u = fM2*fM2, 2.0*xi-2.0*nu
		case FamilyM6:
			f, u = fM2*fM2*fM2, 6.0*xi-6.0*nu
		case FamilyM8:
			f, u = fM2*fM2*fM2*fM2, 8.0*xi-8.0*nu
		}
		st.F[i] = f
		st.U[i] = u
	}
}
