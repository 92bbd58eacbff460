package domain

import (
	"math"
	"strings"
)

// Constituent indices follow the channel model's fixed ordering. The catalog
// is closed: segments never carry constituents outside this set.
const (
	CSa = iota
	CSsa
	CMm
	CMSf
	CMf
	C2Q1
	CQ1
	CRho1
	CO1
	CM1
	CP1
	CS1
	CK1
	CJ1
	COO1
	C2N2
	CMu2
	CN2
	CNu2
	CM2
	CLam2
	CL2
	CT2
	CS2
	CR2
	CK2
	C2SM2
	C2MK3
	CM3
	CMK3
	CMN4
	CM4
	CMS4
	CS4
	CM6
	CS6
	CM8

	// NumConstituents is the size of the full catalog.
	NumConstituents
)

// NodalFamily groups constituents that share a nodal correction formula
// (Schureman tables). Solar constituents carry no correction.
type NodalFamily int

const (
	FamilySolar NodalFamily = iota
	FamilyMm
	FamilyMSf
	FamilyMf
	FamilyO1
	FamilyM1
	FamilyK1
	FamilyJ1
	FamilyOO1
	FamilyM2
	FamilyL2
	FamilyK2
	Family2SM2
	Family2MK3
	FamilyM3
	FamilyMK3
	FamilyM4
	FamilyMS4
	FamilyM6
	FamilyM8
)

// Constituent is one periodic component of the tidal signal. SpeedDegPerHr is
// a physical constant; the Arg* coefficients build the equilibrium argument
//
//	V = Species*360*dayfrac + ArgS*s + ArgH*h + ArgP*p + ArgP1*p1 + ArgConst
//
// from the mean longitudes of the moon (s), sun (h), lunar perigee (p) and
// solar perigee (p1).
type Constituent struct {
	Name          string
	SpeedDegPerHr float64
	Species       int // cycles per day: 0, 1, 2, 3, 4, 6 or 8
	ArgS          float64
	ArgH          float64
	ArgP          float64
	ArgP1         float64
	ArgConst      float64 // degrees
	Family        NodalFamily
}

// Catalog holds the 37 standard constituents in model order.
// Speeds per NOAA; argument coefficients per Schureman (1976).
var Catalog = [NumConstituents]Constituent{
	CSa:   {Name: "Sa", SpeedDegPerHr: 0.0410686, Species: 0, ArgH: 1, Family: FamilySolar},
	CSsa:  {Name: "Ssa", SpeedDegPerHr: 0.0821373, Species: 0, ArgH: 2, Family: FamilySolar},
	CMm:   {Name: "Mm", SpeedDegPerHr: 0.5443747, Species: 0, ArgS: 1, ArgP: -1, Family: FamilyMm},
	CMSf:  {Name: "MSf", SpeedDegPerHr: 1.0158958, Species: 0, ArgS: 2, ArgP: -2, Family: FamilyMSf},
	CMf:   {Name: "Mf", SpeedDegPerHr: 1.0980331, Species: 0, ArgS: 2, Family: FamilyMf},
	C2Q1:  {Name: "2Q1", SpeedDegPerHr: 12.8542862, Species: 1, ArgS: -4, ArgH: 1, ArgP: 2, ArgConst: -90, Family: FamilyO1},
	CQ1:   {Name: "Q1", SpeedDegPerHr: 13.3986609, Species: 1, ArgS: -3, ArgH: 1, ArgP: 1, ArgConst: -90, Family: FamilyO1},
	CRho1: {Name: "Rho1", SpeedDegPerHr: 13.4715145, Species: 1, ArgS: -3, ArgH: 3, ArgP: -1, ArgConst: -90, Family: FamilyO1},
	CO1:   {Name: "O1", SpeedDegPerHr: 13.9430356, Species: 1, ArgS: -2, ArgH: 1, ArgConst: -90, Family: FamilyO1},
	CM1:   {Name: "M1", SpeedDegPerHr: 14.4966939, Species: 1, ArgS: -1, ArgH: 1, ArgConst: -90, Family: FamilyM1},
	CP1:   {Name: "P1", SpeedDegPerHr: 14.9589314, Species: 1, ArgH: -1, ArgConst: -90, Family: FamilySolar},
	CS1:   {Name: "S1", SpeedDegPerHr: 15.0000000, Species: 1, ArgConst: 180, Family: FamilySolar},
	CK1:   {Name: "K1", SpeedDegPerHr: 15.0410686, Species: 1, ArgH: 1, ArgConst: 90, Family: FamilyK1},
	CJ1:   {Name: "J1", SpeedDegPerHr: 15.5854433, Species: 1, ArgS: 1, ArgH: 1, ArgP: -1, ArgConst: 90, Family: FamilyJ1},
	COO1:  {Name: "OO1", SpeedDegPerHr: 16.1391017, Species: 1, ArgS: 2, ArgH: 1, ArgConst: 90, Family: FamilyOO1},
	C2N2:  {Name: "2N2", SpeedDegPerHr: 27.8953548, Species: 2, ArgS: -4, ArgH: 2, ArgP: 2, Family: FamilyM2},
	CMu2:  {Name: "Mu2", SpeedDegPerHr: 27.9682084, Species: 2, ArgS: -4, ArgH: 4, Family: FamilyM2},
	CN2:   {Name: "N2", SpeedDegPerHr: 28.4397295, Species: 2, ArgS: -3, ArgH: 2, ArgP: 1, Family: FamilyM2},
	CNu2:  {Name: "Nu2", SpeedDegPerHr: 28.5125831, Species: 2, ArgS: -3, ArgH: 4, ArgP: -1, Family: FamilyM2},
	CM2:   {Name: "M2", SpeedDegPerHr: 28.9841042, Species: 2, ArgS: -2, ArgH: 2, Family: FamilyM2},
	CLam2: {Name: "Lam2", SpeedDegPerHr: 29.4556253, Species: 2, ArgS: -1, ArgP: 1, ArgConst: 180, Family: FamilyM2},
	CL2:   {Name: "L2", SpeedDegPerHr: 29.5284789, Species: 2, ArgS: -1, ArgH: 2, ArgP: -1, ArgConst: 180, Family: FamilyL2},
	CT2:   {Name: "T2", SpeedDegPerHr: 29.9589333, Species: 2, ArgH: -1, ArgP1: 1, Family: FamilySolar},
	CS2:   {Name: "S2", SpeedDegPerHr: 30.0000000, Species: 2, Family: FamilySolar},
	CR2:   {Name: "R2", SpeedDegPerHr: 30.0410667, Species: 2, ArgH: 1, ArgP1: -1, ArgConst: 180, Family: FamilySolar},
	CK2:   {Name: "K2", SpeedDegPerHr: 30.0821373, Species: 2, ArgH: 2, Family: FamilyK2},
	C2SM2: {Name: "2SM2", SpeedDegPerHr: 31.0158958, Species: 2, ArgS: 2, ArgH: -2, Family: Family2SM2},
	C2MK3: {Name: "2MK3", SpeedDegPerHr: 42.9271398, Species: 3, ArgS: -4, ArgH: 3, ArgConst: -90, Family: Family2MK3},
	CM3:   {Name: "M3", SpeedDegPerHr: 43.4761563, Species: 3, ArgS: -3, ArgH: 3, ArgConst: 180, Family: FamilyM3},
	CMK3:  {Name: "MK3", SpeedDegPerHr: 44.0251729, Species: 3, ArgS: -2, ArgH: 3, ArgConst: 90, Family: FamilyMK3},
	CMN4:  {Name: "MN4", SpeedDegPerHr: 57.4238337, Species: 4, ArgS: -5, ArgH: 4, ArgP: 1, Family: FamilyM4},
	CM4:   {Name: "M4", SpeedDegPerHr: 57.9682084, Species: 4, ArgS: -4, ArgH: 4, Family: FamilyM4},
	CMS4:  {Name: "MS4", SpeedDegPerHr: 58.9841042, Species: 4, ArgS: -2, ArgH: 2, Family: FamilyMS4},
	CS4:   {Name: "S4", SpeedDegPerHr: 60.0000000, Species: 4, Family: FamilySolar},
	CM6:   {Name: "M6", SpeedDegPerHr: 86.9523127, Species: 6, ArgS: -6, ArgH: 6, Family: FamilyM6},
	CS6:   {Name: "S6", SpeedDegPerHr: 90.0000000, Species: 6, Family: FamilySolar},
	CM8:   {Name: "M8", SpeedDegPerHr: 115.9364166, Species: 8, ArgS: -8, ArgH: 8, Family: FamilyM8},
}

// byUpperName maps upper-cased constituent names to catalog indices.
var byUpperName = func() map[string]int {
	m := make(map[string]int, NumConstituents)
	for i, c := range Catalog {
		m[strings.ToUpper(c.Name)] = i
	}
	// Aliases seen in published harmonic tables.
	m["RHO"] = CRho1
	m["LAM"] = CLam2
	m["LAMBDA2"] = CLam2
	m["2MS2"] = C2SM2
	m["OO"] = COO1
	return m
}()

// ConstituentIndex resolves a constituent name (case-insensitive, common
// aliases accepted) to its catalog index.
func ConstituentIndex(name string) (int, bool) {
	i, ok := byUpperName[strings.ToUpper(strings.TrimSpace(name))]
	return i, ok
}

// ConstituentNames returns the catalog names in model order.
func ConstituentNames() []string {
	names := make([]string, NumConstituents)
	for i, c := range Catalog {
		names[i] = c.Name
	}
	return names
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
