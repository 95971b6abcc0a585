package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
)

// Feature kinds, stored in the "kind" property.
const (
	KindCollar = "collar"
	KindTrace  = "trace"
)

// GeoJSON writes one point feature per collar and, for surveyed holes, a line
// feature from collar to toe in plan. Coordinates are site grid meters
// (easting, northing), not WGS84.
func GeoJSON(traces []Trace, s pattern.Settings) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	collars := make(orb.MultiPoint, 0, len(traces))

	for _, t := range traces {
		at := orb.Point{t.Collar[0], t.Collar[1]}
		collars = append(collars, at)

		f := geojson.NewFeature(at)
		f.ID = t.ID
		f.Properties["kind"] = KindCollar
		f.Properties["id"] = t.ID
		f.Properties["elevation"] = t.Collar[2]
		f.Properties["depth"] = t.Depth
		f.Properties["diameter"] = s.Diameter
		f.Properties["oriented"] = t.Oriented
		if t.Oriented {
			f.Properties["azimuth"] = t.Azimuth
			f.Properties["dip"] = t.Dip
		}
		fc.Append(f)

		if !t.Oriented {
			continue
		}
		line := geojson.NewFeature(orb.LineString{at, {t.Toe[0], t.Toe[1]}})
		line.Properties["kind"] = KindTrace
		line.Properties["id"] = t.ID
		line.Properties["toe_elevation"] = t.Toe[2]
		fc.Append(line)
	}
	fc.BBox = geojson.NewBBox(collars.Bound())

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "encode geojson")
	}
	return data, nil
}
