// Package wifi holds the directory of public Wi-Fi points that citizens can
// report problems about.
package wifi

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/golang/geo/s2"
	"gopkg.in/yaml.v3"
)

// earth radius used to turn angles into metres
const earthRadiusMeters = 6371008.8

type Point struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Address string  `yaml:"address" json:"address"`
	Lat     float64 `yaml:"lat" json:"lat"`
	Lon     float64 `yaml:"lon" json:"lon"`
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// Nearby is a point with its distance from the query position.
type Nearby struct {
	Point
	DistanceMeters float64 `json:"distanceMeters"`
}

type pointsFile struct {
	Points []Point `yaml:"points"`
}

// Directory is an immutable, in-memory list of points.
type Directory struct {
	points []Point
	byID   map[string]Point
}

// NewDirectory validates the points: ids must be unique and coordinates valid.
func NewDirectory(points []Point) (*Directory, error) {
	d := &Directory{
		points: make([]Point, 0, len(points)),
		byID:   make(map[string]Point, len(points)),
	}
	for i, p := range points {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("point #%d has no id", i+1)
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate point id %q", p.ID)
		}
		if !p.latLng().IsValid() {
			return nil, fmt.Errorf("point %q has invalid coordinates", p.ID)
		}
		d.points = append(d.points, p)
		d.byID[p.ID] = p
	}
	return d, nil
}

// Load reads a YAML file of the form `points: [{id, name, address, lat, lon}]`.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wifi points: %w", err)
	}
	var f pointsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse wifi points: %w", err)
	}
	return NewDirectory(f.Points)
}

func (d *Directory) Points() []Point {
	return append([]Point(nil), d.points...)
}

func (d *Directory) Get(id string) (Point, bool) {
	p, ok := d.byID[id]
	return p, ok
}

func (d *Directory) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Nearest scans every point and returns up to limit points ordered by
// great-circle distance. Ties keep directory order.
func (d *Directory) Nearest(lat, lon float64, limit int) ([]Nearby, error) {
	origin := s2.LatLngFromDegrees(lat, lon)
	if !origin.IsValid() {
		return nil, fmt.Errorf("invalid coordinates: %f, %f", lat, lon)
	}
	if limit <= 0 || limit > len(d.points) {
		limit = len(d.points)
	}

	out := make([]Nearby, 0, len(d.points))
	for _, p := range d.points {
		out = append(out, Nearby{
			Point:          p,
			DistanceMeters: origin.Distance(p.latLng()).Radians() * earthRadiusMeters,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out[:limit], nil
}
