//go:build gocv
// +build gocv

package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/infrastructure/vision"
)

// videoDevice устройство V4L/DirectShow через gocv.VideoCapture
type videoDevice struct {
	capture *gocv.VideoCapture
	buf     gocv.Mat
}

// OpenVideoDevice открывает камеру и выставляет разрешение, яркость и контраст.
// Яркость и контраст передаются в долях 0..1.
func OpenVideoDevice(cfg entity.CameraConfig) (Device, error) {
	capture, err := gocv.OpenVideoCapture(cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("open video capture %d: %w", cfg.Index, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video capture %d is not opened", cfg.Index)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.ResolutionWidth))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.ResolutionHeight))
	capture.Set(gocv.VideoCaptureBrightness, float64(cfg.Brightness)/100)
	capture.Set(gocv.VideoCaptureContrast, float64(cfg.Contrast)/100)

	return &videoDevice{capture: capture, buf: gocv.NewMat()}, nil
}

func (d *videoDevice) Read() (entity.Frame, bool) {
	if ok := d.capture.Read(&d.buf); !ok || d.buf.Empty() {
		return entity.Frame{}, false
	}
	frame, err := vision.FromMat(d.buf)
	if err != nil {
		return entity.Frame{}, false
	}
	return frame, true
}

func (d *videoDevice) Close() error {
	d.buf.Close()
	return d.capture.Close()
}
