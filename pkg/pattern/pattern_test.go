package pattern

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/view"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"zero spacing", func(s *Settings) { s.Spacing = 0 }, true},
		{"negative burden", func(s *Settings) { s.Burden = -1 }, true},
		{"zero sub-drill", func(s *Settings) { s.SubDrill = 0 }, false},
		{"negative stemming", func(s *Settings) { s.Stemming = -0.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDrillPointDerived(t *testing.T) {
	s := DefaultSettings()
	p := DrillPoint{ID: "A1", Depth: s.Depth}
	if p.HasCustomDepth(s) {
		t.Error("point at pattern depth reported custom depth")
	}
	p.Depth = 15
	if !p.HasCustomDepth(s) {
		t.Error("point at 15 m should have custom depth")
	}

	// 15 + 1 sub-drill - 2.5 stemming
	if got := p.ChargeLength(s); got != 13.5 {
		t.Errorf("ChargeLength() = %v, want 13.5", got)
	}
	p.Stemming = Float(20)
	if got := p.ChargeLength(s); got != 0 {
		t.Errorf("ChargeLength() with long stemming = %v, want 0", got)
	}

	if p.HasOrientation() {
		t.Error("point without angles reported orientation")
	}
	p.Azimuth, p.Dip = Float(90), Float(70)
	if !p.HasOrientation() {
		t.Error("point with both angles should be oriented")
	}

	c := p.Clone()
	*c.Azimuth = 180
	if *p.Azimuth != 90 {
		t.Error("Clone shares the azimuth pointer")
	}
}

func TestDrillPointValidate(t *testing.T) {
	tests := []struct {
		name string
		p    DrillPoint
		code errors.Code
	}{
		{"empty id", DrillPoint{Depth: 10}, errors.ErrCodeInvalidPoint},
		{"zero depth", DrillPoint{ID: "A1"}, errors.ErrCodeInvalidPoint},
		{"bad dip", DrillPoint{ID: "A1", Depth: 10, Dip: Float(95)}, errors.ErrCodeInvalidPoint},
		{"ok", DrillPoint{ID: "A1", Depth: 10, Azimuth: Float(359.9), Dip: Float(0)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	s := DefaultSettings()
	pts, err := Generate(s, GridOptions{Rows: 3, Holes: 4, Staggered: true, OriginX: 5, OriginY: 5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(pts) != 12 {
		t.Fatalf("len = %d, want 12", len(pts))
	}
	if pts[0].ID != "A1" || pts[4].ID != "B1" || pts[11].ID != "C4" {
		t.Errorf("ids = %s %s %s", pts[0].ID, pts[4].ID, pts[11].ID)
	}
	if pts[4].X != 5+s.Spacing/2 || pts[4].Y != 5+s.Burden {
		t.Errorf("B1 = (%v, %v), want staggered second row", pts[4].X, pts[4].Y)
	}
	if pts[8].X != 5 {
		t.Errorf("C1.X = %v, want 5 (third row not staggered)", pts[8].X)
	}

	if _, err := Generate(s, GridOptions{Rows: 0, Holes: 4}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Generate with zero rows = %v, want INVALID_INPUT", err)
	}
}

func TestRowLabel(t *testing.T) {
	for row, want := range map[int]string{0: "A", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"} {
		if got := RowLabel(row); got != want {
			t.Errorf("RowLabel(%d) = %q, want %q", row, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := DefaultSettings()
	pts := []DrillPoint{
		{ID: "A1", X: 0, Y: 0, Depth: s.Depth},
		{ID: "A2", X: 8, Y: 0, Depth: 14, Azimuth: Float(0), Dip: Float(80)},
		{ID: "B1", X: 4, Y: 3, Depth: s.Depth},
	}
	st := Summarize(pts, s)
	if st.Holes != 3 || st.CustomDepth != 1 || st.Oriented != 1 {
		t.Errorf("Summarize counts = %+v", st)
	}
	if st.Width() != 8 || st.Height() != 3 {
		t.Errorf("extent = %v × %v, want 8 × 3", st.Width(), st.Height())
	}
	if want := 3*s.SubDrill + 2*s.Depth + 14; st.DrillLength != want {
		t.Errorf("DrillLength = %v, want %v", st.DrillLength, want)
	}

	if empty := Summarize(nil, s); empty.Holes != 0 || empty.Width() != 0 {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestProjectSaveLoad(t *testing.T) {
	p := NewProject("bench 420")
	p.Origin = Origin{Easting: 512000, Northing: 7300000, Elevation: 420}
	if err := p.AddPoint(DrillPoint{ID: "A1", X: 5, Y: 5, Depth: 12, Spacing: 4, Burden: 3.5, Dip: Float(75), Azimuth: Float(45)}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if err := p.AddPoint(DrillPoint{ID: "A2", X: 9, Y: 5, Depth: 12, Spacing: 4, Burden: 3.5}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}

	path := filepath.Join(t.TempDir(), "blast"+FileExtension)
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != p.Name || len(got.Points) != 2 {
		t.Fatalf("loaded %+v", got)
	}
	if got.Points[0].Dip == nil || *got.Points[0].Dip != 75 {
		t.Error("optional dip lost in round trip")
	}
	if got.Points[1].Azimuth != nil {
		t.Error("absent azimuth should stay absent")
	}
	if got.Hash() != p.Hash() {
		t.Error("Hash changed across save/load")
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"syntax", "name = ", errors.ErrCodeInvalidProject},
		{"unknown key", "name = \"x\"\nspacing = 4\n[settings]\nspacing = 4\nburden = 3\ndepth = 10\n", errors.ErrCodeInvalidProject},
		{"bad settings", "name = \"x\"\n[settings]\nspacing = 0\nburden = 3\ndepth = 10\n", errors.ErrCodeInvalidSettings},
		{"duplicate ids", "name = \"x\"\n[settings]\nspacing = 4\nburden = 3\ndepth = 10\n" +
			"[[point]]\nid = \"A1\"\ndepth = 10\n[[point]]\nid = \"A1\"\ndepth = 10\n", errors.ErrCodeInvalidProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDecodeDefaultsView(t *testing.T) {
	p, err := Decode(strings.NewReader("name = \"x\"\n[settings]\nspacing = 4\nburden = 3\ndepth = 10\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.View.Scale != 1 || p.View.Width == 0 {
		t.Errorf("View = %+v, want default state", p.View)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestProjectEditing(t *testing.T) {
	p := NewProject("edit")
	_ = p.AddPoint(DrillPoint{ID: "A1", Depth: 10})
	if err := p.AddPoint(DrillPoint{ID: "A1", Depth: 10}); err == nil {
		t.Error("AddPoint accepted a duplicate id")
	}
	if err := p.MovePoint("A1", view.Point{X: 3, Y: 4}); err != nil {
		t.Fatalf("MovePoint: %v", err)
	}
	if pt, _ := p.Point("A1"); pt.X != 3 || pt.Y != 4 {
		t.Errorf("after move: %+v", pt)
	}
	if err := p.MovePoint("B9", view.Point{}); !errors.Is(err, errors.ErrCodePointNotFound) {
		t.Errorf("MovePoint(unknown) = %v", err)
	}
	if err := p.RemovePoint("A1"); err != nil || len(p.Points) != 0 {
		t.Errorf("RemovePoint: %v, %d left", err, len(p.Points))
	}
}

func TestSurveyPointsFromOrigin(t *testing.T) {
	p := NewProject("geo")
	_ = p.AddPoint(DrillPoint{ID: "A1", X: 10, Y: 5, Depth: 12})
	if got := p.SurveyPoints(); len(got) != 0 {
		t.Errorf("without origin: %d survey points, want 0", len(got))
	}

	p.Origin = Origin{Easting: 1000, Northing: 2000, Elevation: 300}
	got := p.SurveyPoints()
	if len(got) != 1 {
		t.Fatalf("SurveyPoints() = %d, want 1", len(got))
	}
	if got[0].Easting != 1010 || got[0].Northing != 1995 || got[0].Elevation != 300 {
		t.Errorf("survey = %+v", got[0])
	}
	if !got[0].HasValidCoordinates() {
		t.Error("georeferenced point should be valid")
	}
}

func TestEncodeOmitsAbsentAngles(t *testing.T) {
	p := NewProject("omit")
	_ = p.AddPoint(DrillPoint{ID: "A1", Depth: 10})
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(buf.String(), "azimuth") {
		t.Errorf("encoded absent azimuth:\n%s", buf.String())
	}
}
