package headless

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/n0rule/nanachi/internal/lcd"
	"github.com/n0rule/nanachi/monoframe"
)

func TestUpdateWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.png")
	d := New(path, 160, 43)

	bg := monoframe.New(d.Bounds())
	bg.SetMono(5, 7, monoframe.On)
	if err := d.SetBackground(bg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("snapshot written before Update")
	}
	if err := d.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	img, err := png.Decode(fh)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 160, 43) {
		t.Errorf("snapshot bounds = %v", img.Bounds())
	}
	if r, _, _, _ := img.At(5, 7).RGBA(); r != 0xFFFF {
		t.Error("lit pixel is not white in the snapshot")
	}
	if r, _, _, _ := img.At(6, 7).RGBA(); r != 0 {
		t.Error("dark pixel is not black in the snapshot")
	}
}

func TestUpdateSkipsUnchanged(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "panel.png"), 160, 43)

	for i := 0; i < 3; i++ {
		if err := d.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if d.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", d.Writes())
	}

	if err := d.SetText(0, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if d.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", d.Writes())
	}
	if f := d.Frame(); f == nil || f.Equal(monoframe.New(d.Bounds())) {
		t.Error("text did not reach the frame")
	}
}

func TestInMemory(t *testing.T) {
	d := New("", 8, 4)
	if d.Frame() != nil {
		t.Error("Frame() before Update is not nil")
	}
	bg := monoframe.New(d.Bounds())
	bg.Fill(monoframe.On)
	if err := d.SetBackground(bg); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if !d.Frame().Equal(bg) {
		t.Error("Frame() differs from the background")
	}
}

func TestUpdateError(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "missing", "panel.png"), 160, 43)
	var de *lcd.DeviceError
	if err := d.Update(); !errors.As(err, &de) {
		t.Errorf("Update() error = %v, want a DeviceError", err)
	}
}

func TestClose(t *testing.T) {
	d := New("", 160, 43)
	if d.Pressed(0) {
		t.Error("headless button pressed")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(); !errors.Is(err, lcd.ErrClosed) {
		t.Errorf("Update() = %v, want ErrClosed", err)
	}
	if err := d.Close(); !errors.Is(err, lcd.ErrClosed) {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
}
