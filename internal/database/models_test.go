package database

import (
	"errors"
	"testing"
)

func TestFarmerSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Farmer
		want    Farmer
		wantErr error
	}{
		{
			name:    "blank name rejected",
			in:      Farmer{Name: "  "},
			wantErr: ErrEmptyFarmerName,
		},
		{
			name: "defaults applied",
			in:   Farmer{Name: " Ravi ", FarmSizeHa: 0, Language: "French"},
			want: Farmer{Name: "Ravi", FarmSizeHa: 1.0, SoilType: "Unknown", Language: "English"},
		},
		{
			name: "valid fields untouched",
			in:   Farmer{Name: "Asha", FarmSizeHa: 2.5, SoilType: "Loamy", Language: "Tamil"},
			want: Farmer{Name: "Asha", FarmSizeHa: 2.5, SoilType: "Loamy", Language: "Tamil"},
		},
		{
			name: "language match is case-insensitive",
			in:   Farmer{Name: "Mina", FarmSizeHa: 1, Language: "hindi", SoilType: "Clay"},
			want: Farmer{Name: "Mina", FarmSizeHa: 1, Language: "hindi", SoilType: "Clay"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := tt.in
			err := f.Sanitize()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Sanitize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if f.Name != tt.want.Name || f.FarmSizeHa != tt.want.FarmSizeHa ||
				f.SoilType != tt.want.SoilType || f.Language != tt.want.Language {
				t.Errorf("Sanitize() = %+v, want %+v", f, tt.want)
			}
		})
	}
}

func TestHasCoordinates(t *testing.T) {
	t.Parallel()

	if (&Farmer{}).HasCoordinates() {
		t.Error("origin coordinates should read as unset")
	}
	if !(&Farmer{Latitude: 18.52, Longitude: 73.86}).HasCoordinates() {
		t.Error("real coordinates should read as set")
	}
	if !(&Farmer{Latitude: 0, Longitude: 73.86}).HasCoordinates() {
		t.Error("zero latitude with real longitude should read as set")
	}
}
