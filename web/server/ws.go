package server

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/image/draw"

	"github.com/arvehn/go-interactive-pathtracer/pkg/renderer"
)

const (
	frameInterval = 100 * time.Millisecond
	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
	pongTimeout   = 60 * time.Second

	// First pass of each session ships at reduced resolution so the
	// viewer gets feedback quickly while the camera settles
	previewScale   = 2
	previewMinSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	// The viewer is same-origin in production; cross-origin is allowed
	// for local development against a separate frontend dev server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is what the viewer sends: camera updates while the user
// drags, nothing else
type clientMessage struct {
	Type string               `json:"type"`
	Pose *renderer.CameraPose `json:"pose,omitempty"`
}

// initMessage greets a new client with the active settings and pose
type initMessage struct {
	Type     string              `json:"type"`
	Settings TracerSettings      `json:"settings"`
	Pose     renderer.CameraPose `json:"pose"`
}

// frameMessage carries one completed pass as a base64 PNG
type frameMessage struct {
	Type    string               `json:"type"`
	Pass    int                  `json:"pass"`
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Preview bool                 `json:"preview"`
	Image   string               `json:"image"`
	Stats   renderer.RenderStats `json:"stats"`
}

// handleWebSocket streams completed passes to one viewer and feeds its
// camera movements into the shared session
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(initMessage{
		Type:     "init",
		Settings: s.Settings(),
		Pose:     s.controller.Pose(),
	}); err != nil {
		s.logger.Printf("websocket init: %v", err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLoop(conn)
	}()
	s.writeLoop(conn, done)
}

// readLoop applies camera updates until the client disconnects
func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("websocket read: %v", err)
			}
			return
		}

		switch msg.Type {
		case "camera":
			if msg.Pose == nil {
				continue
			}
			if err := s.controller.CameraMoved(*msg.Pose); err != nil {
				s.logger.Printf("rejected camera pose: %v", err)
			}
		default:
			s.logger.Printf("ignoring unknown message type %q", msg.Type)
		}
	}
}

// writeLoop pushes each newly completed pass to the client, at most one
// frame per tick
func (s *Server) writeLoop(conn *websocket.Conn, done <-chan struct{}) {
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	var lastSent *image.RGBA
	for {
		select {
		case <-done:
			return

		case <-pings.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-frames.C:
			snap := s.controller.Snapshot()
			if snap.Image == nil || snap.Image == lastSent {
				continue
			}

			msg, err := buildFrame(snap)
			if err != nil {
				s.logger.Printf("encoding frame: %v", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
			lastSent = snap.Image
		}
	}
}

// buildFrame encodes a snapshot for the wire, downscaling the first
// pass of a session so it arrives fast
func buildFrame(snap renderer.Snapshot) (frameMessage, error) {
	img := snap.Image
	preview := snap.Pass == 0 && img.Bounds().Dx() >= previewMinSize && img.Bounds().Dy() >= previewMinSize
	if preview {
		img = downscale(img, previewScale)
	}

	encoded, err := encodePNG(img)
	if err != nil {
		return frameMessage{}, err
	}
	return frameMessage{
		Type:    "frame",
		Pass:    snap.Pass,
		Width:   img.Bounds().Dx(),
		Height:  img.Bounds().Dy(),
		Preview: preview,
		Image:   encoded,
		Stats:   snap.Stats,
	}, nil
}

// downscale reduces the image by an integer factor with bilinear
// filtering
func downscale(img *image.RGBA, factor int) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()/factor, bounds.Dy()/factor))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// encodePNG renders the image to a base64 PNG payload
func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
