package geo

import (
	"math"
	"testing"

	"dermalink/mobile/internal/models"
)

func TestHaversine(t *testing.T) {
	tunis, _ := CityPoint("Tunis")
	sfax, _ := CityPoint("Sfax")

	d := Haversine(tunis, sfax)
	if math.Abs(d-235) > 10 {
		t.Fatalf("Tunis-Sfax should be roughly 235 km, got %.1f", d)
	}
	if Haversine(tunis, tunis) != 0 {
		t.Fatal("distance to self must be zero")
	}
	if math.Abs(Haversine(tunis, sfax)-Haversine(sfax, tunis)) > 1e-9 {
		t.Fatal("distance must be symmetric")
	}
}

func TestCityPointNormalization(t *testing.T) {
	cases := []string{"sidi_bouzid", "Sidi Bouzid", "  SIDI BOUZID  "}
	for _, c := range cases {
		if _, ok := CityPoint(c); !ok {
			t.Fatalf("expected %q to resolve", c)
		}
	}
	if _, ok := CityPoint("atlantis"); ok {
		t.Fatal("unknown city must not resolve")
	}
}

func TestRankDoctorsByDistance(t *testing.T) {
	doctors := []models.Doctor{
		{ID: "far", Location: "Tataouine"},
		{ID: "mystery", Location: "Atlantis"},
		{ID: "close", Location: "Ariana"},
		{ID: "mid", Location: "Sousse"},
	}

	got := RankDoctorsByDistance(doctors, "Tunis")
	order := []string{"close", "mid", "far", "mystery"}
	for i, want := range order {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s (full: %+v)", i, want, got[i].ID, got)
		}
	}
}

func TestRankFromUnknownOriginKeepsOrder(t *testing.T) {
	doctors := []models.Doctor{
		{ID: "a", Location: "Sfax"},
		{ID: "b", Location: "Tunis"},
	}
	got := RankDoctorsByDistance(doctors, "Atlantis")
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unknown origin must keep the input order, got %+v", got)
	}
}
