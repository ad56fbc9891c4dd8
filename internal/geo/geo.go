// Package geo holds the great-circle math and the governorate coordinate
// table used to rank doctors by distance from the patient.
package geo

import (
	"math"
	"sort"
	"strings"

	"dermalink/mobile/internal/models"
)

const earthRadiusKm = 6371.0

type Point struct {
	Latitude  float64
	Longitude float64
}

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CityPoint resolves a governorate name to coordinates. Lookup is
// case-insensitive and tolerates spaces for underscores.
func CityPoint(city string) (Point, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "_")
	p, ok := cityCoordinates[key]
	return p, ok
}

// RankDoctorsByDistance sorts a doctor list by distance from the given city.
// Doctors in unknown locations sort last, in their original order.
func RankDoctorsByDistance(doctors []models.Doctor, fromCity string) []models.Doctor {
	origin, ok := CityPoint(fromCity)
	if !ok {
		return doctors
	}

	type ranked struct {
		doctor models.Doctor
		dist   float64
		known  bool
	}

	rankedList := make([]ranked, 0, len(doctors))
	for _, d := range doctors {
		p, ok := CityPoint(d.Location)
		entry := ranked{doctor: d, known: ok}
		if ok {
			entry.dist = Haversine(origin, p)
		}
		rankedList = append(rankedList, entry)
	}

	sort.SliceStable(rankedList, func(i, j int) bool {
		if rankedList[i].known != rankedList[j].known {
			return rankedList[i].known
		}
		return rankedList[i].dist < rankedList[j].dist
	})

	out := make([]models.Doctor, len(rankedList))
	for i, entry := range rankedList {
		out[i] = entry.doctor
	}
	return out
}
