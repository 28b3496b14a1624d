package image

import "testing"

func TestFormat_Info(t *testing.T) {
	tests := []struct {
		format Format
		bpp    int
		alpha  bool
		gray   bool
		swapRB bool
	}{
		{FormatGray8, 1, false, true, false},
		{FormatRGB8, 3, false, false, false},
		{FormatBGR8, 3, false, false, true},
		{FormatRGBA8, 4, true, false, false},
		{FormatBGRA8, 4, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			info := tt.format.Info()
			if info.HasAlpha != tt.alpha || info.IsGrayscale != tt.gray || info.SwapRB != tt.swapRB {
				t.Errorf("Info() = %+v, want alpha %v gray %v swapRB %v", info, tt.alpha, tt.gray, tt.swapRB)
			}
		})
	}
}

func TestFormat_Invalid(t *testing.T) {
	f := Format(200)
	if f.IsValid() {
		t.Error("Format(200).IsValid() = true, want false")
	}
	if f.String() != "Unknown" {
		t.Errorf("String() = %q, want Unknown", f.String())
	}
	if f.Info() != (FormatInfo{}) {
		t.Errorf("Info() = %+v, want zero", f.Info())
	}
	if f.BytesPerPixel() != 0 {
		t.Errorf("BytesPerPixel() = %d, want 0", f.BytesPerPixel())
	}
}

func TestFormat_RowBytes(t *testing.T) {
	if got := FormatRGBA8.RowBytes(3); got != 12 {
		t.Errorf("RGBA8.RowBytes(3) = %d, want 12", got)
	}
	if got := FormatBGR8.RowBytes(5); got != 15 {
		t.Errorf("BGR8.RowBytes(5) = %d, want 15", got)
	}
	if got := FormatGray8.RowBytes(7); got != 7 {
		t.Errorf("Gray8.RowBytes(7) = %d, want 7", got)
	}
}
