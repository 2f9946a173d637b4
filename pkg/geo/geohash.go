// Package geo implements the coarse spatial bucketing and exact distance
// math behind nearby-experience search: geohash cells for indexed lookup,
// 3×3 neighbor enumeration so matches just across a cell boundary are not
// missed, and great-circle distance for radius filtering and sorting.
package geo

import (
	"math"
	"strings"
)

const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultPrecision is the stored cell size: 5 characters ≈ 4.9 km × 4.9 km
// at the equator, a practical bucket for city-scale venue search.
const DefaultPrecision = 5

const earthRadiusKm = 6371.0

// Encode returns the geohash of the coordinate at the given precision.
func Encode(lat, lon float64, precision int) string {
	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	var sb strings.Builder
	sb.Grow(precision)

	bit := 0
	ch := 0
	even := true // even-numbered bits encode longitude
	for sb.Len() < precision {
		if even {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				ch |= 1 << (4 - bit)
				lonMin = mid
			} else {
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				latMin = mid
			} else {
				latMax = mid
			}
		}
		even = !even

		if bit < 4 {
			bit++
		} else {
			sb.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}
	return sb.String()
}

// CellOf returns the storage cell for a coordinate at the default precision.
func CellOf(lat, lon float64) string {
	return Encode(lat, lon, DefaultPrecision)
}

// CellSize returns the height and width of a cell in degrees at the given
// precision. Longitude gets the extra bit when the total is odd.
func CellSize(precision int) (latDeg, lonDeg float64) {
	totalBits := precision * 5
	lonBits := (totalBits + 1) / 2
	latBits := totalBits / 2
	return 180 / math.Pow(2, float64(latBits)), 360 / math.Pow(2, float64(lonBits))
}

// Neighbors returns the cell containing the point plus its eight grid
// neighbors, computed by offsetting the coordinate by one full cell in each
// direction. Latitude is clamped at the poles and longitude wraps at the
// antimeridian, so fewer than nine distinct cells may come back near the
// edges of the grid.
func Neighbors(lat, lon float64) []string {
	latDeg, lonDeg := CellSize(DefaultPrecision)

	seen := make(map[string]bool, 9)
	cells := make([]string, 0, 9)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			nlat := clampLat(lat + float64(di)*latDeg)
			nlon := wrapLon(lon + float64(dj)*lonDeg)
			cell := CellOf(nlat, nlon)
			if !seen[cell] {
				seen[cell] = true
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// DistanceKm computes the great-circle distance between two coordinates
// using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidCoordinate reports whether the pair is a usable WGS84 coordinate.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
