package server

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
)

// StreamHandler serves MJPEG frames from the camera with the current
// sentence overlaid.
type StreamHandler struct {
	camera capture.Camera
	app    *app.App
}

// NewStreamHandler creates a new StreamHandler with the given camera.
// The app is optional; without it frames stream without an overlay.
func NewStreamHandler(camera capture.Camera, a *app.App) *StreamHandler {
	return &StreamHandler{camera: camera, app: a}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		h.overlaySentence(frame)

		// Encode as JPEG
		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// overlaySentence draws the current sentence along the bottom edge.
func (h *StreamHandler) overlaySentence(frame *gocv.Mat) {
	if h.app == nil {
		return
	}

	text, _, _ := h.app.Sentence()
	if text == "" {
		return
	}

	origin := image.Pt(10, frame.Rows()-15)
	gocv.PutText(frame, text, origin, gocv.FontHersheySimplex, 0.9,
		color.RGBA{0, 0, 0, 0}, 4)
	gocv.PutText(frame, text, origin, gocv.FontHersheySimplex, 0.9,
		color.RGBA{255, 255, 255, 0}, 2)
}
