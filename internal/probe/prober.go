package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoStreams is returned for files ffprobe opens but finds no streams in.
var ErrNoStreams = errors.New("no media streams")

// Probe runs a single ffprobe JSON call against path and returns the
// parsed metadata.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if known := classifyStderr(stderr.String()); known != nil {
			return nil, fmt.Errorf("ffprobe %q: %w", path, known)
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	m, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return m, nil
}

// ParseJSON converts raw ffprobe JSON output into Metadata.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Metadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if len(raw.Streams) == 0 {
		return nil, ErrNoStreams
	}
	return buildMetadata(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Duration    string         `json:"duration"`
	NbFrames    string         `json:"nb_frames"`
	Disposition map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildMetadata(raw *ffprobeOutput) *Metadata {
	m := &Metadata{
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
		Codec:      raw.Streams[0].CodecName,
	}

	var primary *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			primary = s
			break
		}
	}
	if primary == nil {
		return m
	}

	m.Width = primary.Width
	m.Height = primary.Height
	m.Codec = primary.CodecName
	if m.Duration == 0 {
		m.Duration = parseFloat(primary.Duration)
	}
	m.IsImage = isImage(m.FormatName, primary)
	m.IsVideo = !m.IsImage
	if m.IsImage {
		m.Duration = 0
	}
	return m
}

// isImage reports whether the picture stream is a still image: an image
// demuxer ("image2", "png_pipe", ...) or a single-frame stream.
func isImage(formatName string, s *ffprobeStream) bool {
	for _, f := range strings.Split(formatName, ",") {
		if f == "image2" || strings.HasSuffix(f, "_pipe") {
			return true
		}
	}
	return parseInt(s.NbFrames) == 1
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
