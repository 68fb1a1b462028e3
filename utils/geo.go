package utils

import "math"

const earthRadiusKM = 6371

// DistanceKM returns the great-circle distance in kilometers between two
// coordinates using the spherical law of cosines. The cosine argument is
// clamped to [-1, 1] so identical points return 0 instead of NaN.
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := radians(lat1)
	rLat2 := radians(lat2)
	cosArg := math.Cos(rLat1)*math.Cos(rLat2)*math.Cos(radians(lng2)-radians(lng1)) +
		math.Sin(rLat1)*math.Sin(rLat2)
	if cosArg > 1 {
		cosArg = 1
	} else if cosArg < -1 {
		cosArg = -1
	}
	return earthRadiusKM * math.Acos(cosArg)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceSQL is the same law-of-cosines expression as a SQL fragment for
// backends with trigonometric functions (PostgreSQL). The origin latitude
// binds twice, then the origin longitude: (lat, lng, lat).
const DistanceSQL = `(6371 * acos(LEAST(1.0, GREATEST(-1.0,
	cos(radians(?)) * cos(radians(stores.latitude)) *
	cos(radians(stores.longitude) - radians(?)) +
	sin(radians(?)) * sin(radians(stores.latitude))))))`
