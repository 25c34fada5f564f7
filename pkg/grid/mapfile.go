package grid

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Benkess/CrossSim/pkg/geo"
)

// Map-pair constants shared with the ROS Nav2 map_server format. The three
// palette values are the only pixel values the writer emits.
const (
	pgmFree     byte = 254
	pgmOccupied byte = 0
	pgmUnknown  byte = 205

	DefaultOccupiedThresh = 0.65
	DefaultFreeThresh     = 0.196
)

// MapMeta is the YAML metadata document written alongside the PGM image.
type MapMeta struct {
	Image          string     `yaml:"image"`
	Resolution     float64    `yaml:"resolution"`
	Origin         [3]float64 `yaml:"origin"`
	Negate         int        `yaml:"negate"`
	OccupiedThresh float64    `yaml:"occupied_thresh"`
	FreeThresh     float64    `yaml:"free_thresh"`
}

// WriteMapFiles exports the grid as a metadata/image pair: a YAML document
// at metaPath and a binary PGM (P5) image next to it with the same base
// name. The image stores one byte per cell, bottom row first, using the
// fixed palette free=254, occupied=0, unknown=205.
func (g *Grid) WriteMapFiles(metaPath string) error {
	base := strings.TrimSuffix(metaPath, filepath.Ext(metaPath))
	pgmPath := base + ".pgm"

	if err := os.WriteFile(pgmPath, g.encodePGM(), 0o644); err != nil {
		return fmt.Errorf("writing map image: %w", err)
	}

	meta := MapMeta{
		Image:          filepath.Base(pgmPath),
		Resolution:     g.Info.Resolution,
		Origin:         [3]float64{g.Info.OriginX, g.Info.OriginY, 0.0},
		Negate:         0,
		OccupiedThresh: DefaultOccupiedThresh,
		FreeThresh:     DefaultFreeThresh,
	}
	out, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding map metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, out, 0o644); err != nil {
		return fmt.Errorf("writing map metadata: %w", err)
	}
	return nil
}

func (g *Grid) encodePGM() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P5\n%d %d\n255\n", g.Info.Width, g.Info.Height)
	// Grid row 0 is the world-bottom row; PGM stores the top row first.
	for y := g.Info.Height - 1; y >= 0; y-- {
		for x := 0; x < g.Info.Width; x++ {
			switch g.cells[y*g.Info.Width+x] {
			case Free:
				buf.WriteByte(pgmFree)
			case Occupied:
				buf.WriteByte(pgmOccupied)
			default:
				buf.WriteByte(pgmUnknown)
			}
		}
	}
	return buf.Bytes()
}

// ReadMapFiles loads a metadata/image pair back into a grid. Pixels are
// classified through the metadata's occupancy thresholds, so the writer's
// palette round-trips exactly: 254 to Free, 0 to Occupied, 205 to Unknown.
// A relative image path is resolved against the metadata file's directory.
func ReadMapFiles(metaPath string) (*Grid, error) {
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("reading map metadata: %w", err)
	}
	meta := MapMeta{
		OccupiedThresh: DefaultOccupiedThresh,
		FreeThresh:     DefaultFreeThresh,
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parsing map metadata %s: %w", metaPath, err)
	}
	if meta.Image == "" {
		return nil, fmt.Errorf("map metadata %s has no image", metaPath)
	}

	imgPath := meta.Image
	if !filepath.IsAbs(imgPath) {
		imgPath = filepath.Join(filepath.Dir(metaPath), imgPath)
	}
	img, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, fmt.Errorf("reading map image: %w", err)
	}

	width, height, pixels, err := decodePGM(img)
	if err != nil {
		return nil, fmt.Errorf("parsing map image %s: %w", imgPath, err)
	}

	g, err := New(width, height, meta.Resolution, geo.Pt(meta.Origin[0], meta.Origin[1]))
	if err != nil {
		return nil, err
	}
	for row := 0; row < height; row++ {
		y := height - 1 - row
		for x := 0; x < width; x++ {
			g.cells[y*width+x] = classifyPixel(pixels[row*width+x], meta)
		}
	}
	return g, nil
}

func classifyPixel(v byte, meta MapMeta) CellState {
	occ := float64(255-int(v)) / 255.0
	if meta.Negate != 0 {
		occ = float64(v) / 255.0
	}
	switch {
	case occ > meta.OccupiedThresh:
		return Occupied
	case occ < meta.FreeThresh:
		return Free
	default:
		return Unknown
	}
}

// decodePGM parses a binary (P5) PGM image with a max value of at most 255.
// Comment lines and arbitrary whitespace in the header are accepted.
func decodePGM(data []byte) (width, height int, pixels []byte, err error) {
	pos := 0
	token := func() (string, error) {
		for pos < len(data) {
			c := data[pos]
			if c == '#' {
				for pos < len(data) && data[pos] != '\n' {
					pos++
				}
				continue
			}
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				pos++
				continue
			}
			break
		}
		start := pos
		for pos < len(data) {
			c := data[pos]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '#' {
				break
			}
			pos++
		}
		if start == pos {
			return "", fmt.Errorf("truncated header")
		}
		return string(data[start:pos]), nil
	}

	magic, err := token()
	if err != nil {
		return 0, 0, nil, err
	}
	if magic != "P5" {
		return 0, 0, nil, fmt.Errorf("unsupported PGM magic %q", magic)
	}
	fields := [3]int{}
	for i := range fields {
		tok, err := token()
		if err != nil {
			return 0, 0, nil, err
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("bad header field %q", tok)
		}
		fields[i] = n
	}
	width, height, maxVal := fields[0], fields[1], fields[2]
	if width <= 0 || height <= 0 {
		return 0, 0, nil, fmt.Errorf("bad image dimensions %dx%d", width, height)
	}
	if maxVal <= 0 || maxVal > 255 {
		return 0, 0, nil, fmt.Errorf("unsupported max value %d", maxVal)
	}
	// Exactly one whitespace byte separates the header from the raster.
	pos++
	if rest := len(data) - pos; rest < width*height {
		return 0, 0, nil, fmt.Errorf("raster truncated: have %d bytes, want %d", rest, width*height)
	}
	return width, height, data[pos : pos+width*height], nil
}
