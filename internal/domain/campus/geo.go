package campus

import "math"

const earthRadiusKm = 6371.0

type Coordinates struct {
	Lat float64
	Lon float64
}

type referencePoint struct {
	code  Code
	point Coordinates
}

// referencePoints is ordered; on equal distance the earlier campus wins.
var referencePoints = []referencePoint{
	{code: Goa, point: Coordinates{Lat: 15.3911442733276, Lon: 73.87815086678745}},
	{code: Hyderabad, point: Coordinates{Lat: 17.544822002003123, Lon: 78.57271655444397}},
	{code: Pilani, point: Coordinates{Lat: 28.359229729445914, Lon: 75.58816379595879}},
	{code: Dubai, point: Coordinates{Lat: 25.131566983306616, Lon: 55.4200293516723}},
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Coordinates) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Nearest picks the closest campus to coords. located=false yields Others.
func Nearest(coords Coordinates, located bool) Code {
	if !located || math.IsNaN(coords.Lat) || math.IsNaN(coords.Lon) {
		return Others
	}

	nearest := Others
	minDist := math.Inf(1)
	for _, ref := range referencePoints {
		dist := Haversine(coords, ref.point)
		if dist < minDist {
			minDist = dist
			nearest = ref.code
		}
	}
	return nearest
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
