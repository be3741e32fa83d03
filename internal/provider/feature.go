package provider

import (
	encjson "encoding/json"
	"math"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/nemo-provider/pkg/nemo"
)

// Fields of a location answer that carry the point.
const (
	longitudeKey = "Longitude"
	latitudeKey  = "Latitude"
)

// Feature is a single GeoJSON feature built from one response record.
// Geometry is nil when the record has no location answer.
type Feature struct {
	Properties nemo.Record
	Geometry   *geom.Point
}

// Metadata is passed through to the serving layer untouched.
type Metadata struct {
	Name    string `json:"name"`
	IDField string `json:"idField"`
}

// FeatureCollection is the provider result: a GeoJSON FeatureCollection plus
// the metadata and ttl hints read by the serving layer.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Metadata Metadata  `json:"metadata"`
	TTL      int       `json:"ttl,omitempty"`
}

// MarshalJSON omits the geometry key entirely for features without a point.
func (f Feature) MarshalJSON() ([]byte, error) {
	out := struct {
		Type       string            `json:"type"`
		Properties nemo.Record       `json:"properties"`
		Geometry   *geojson.Geometry `json:"geometry,omitempty"`
	}{
		Type:       "Feature",
		Properties: f.Properties,
	}
	if out.Properties == nil {
		out.Properties = nemo.NewRecord()
	}
	if f.Geometry != nil {
		g, err := geojson.Encode(f.Geometry)
		if err != nil {
			return nil, eris.Wrap(err, "nemo: encode geometry")
		}
		out.Geometry = g
	}
	return json.Marshal(out)
}

// ToFeature converts a record into a feature. Fields are scanned in order and
// the first one holding a mapping with a numeric Longitude becomes the point
// geometry and is dropped from the properties. Every other field is copied
// as-is. At most one field is ever consumed.
func ToFeature(r nemo.Record) (Feature, error) {
	if r == nil {
		return Feature{}, &TransformError{Err: eris.New("record is null")}
	}
	props := nemo.NewRecord()
	var point *geom.Point

	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		if point == nil {
			if lon, ok := numberAt(pair.Value, longitudeKey); ok {
				lat, ok := numberAt(pair.Value, latitudeKey)
				if !ok {
					return Feature{}, &TransformError{
						Field: pair.Key,
						Err:   eris.New("Longitude present but Latitude missing or not numeric"),
					}
				}
				point = geom.NewPointFlat(geom.XY, []float64{lon, lat})
				continue
			}
		}
		props.Set(pair.Key, pair.Value)
	}

	return Feature{Properties: props, Geometry: point}, nil
}

// numberAt returns v[key] when v is a mapping and the entry is a finite number.
func numberAt(v any, key string) (float64, bool) {
	var (
		raw any
		ok  bool
	)
	switch m := v.(type) {
	case map[string]any:
		raw, ok = m[key]
	case nemo.Record:
		if m != nil {
			raw, ok = m.Get(key)
		}
	}
	if !ok {
		return 0, false
	}

	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case encjson.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
