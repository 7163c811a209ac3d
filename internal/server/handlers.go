package server

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imgbuf/internal/annotate"
	"github.com/ironsheep/imgbuf/internal/bitmap"
	"github.com/ironsheep/imgbuf/internal/colorinfo"
	"github.com/ironsheep/imgbuf/internal/colors"
	"github.com/ironsheep/imgbuf/internal/geom"
	"github.com/ironsheep/imgbuf/internal/imgbuf"
)

// ErrUnknownTool is returned for a tools/call naming no registered tool.
var ErrUnknownTool = errors.New("unknown tool")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_info", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debugw("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_info":
		return s.handleImageInfo(args)
	case "image_convert":
		return s.handleImageConvert(args)
	case "image_split_channels":
		return s.handleImageSplitChannels(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_region":
		return s.handleImageCropRegion(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_mask_rect":
		return s.handleImageMaskRect(args)
	case "image_mask_polygon":
		return s.handleImageMaskPolygon(args)
	case "image_channel_stats":
		return s.handleImageChannelStats(args)
	case "image_measure_distance":
		return s.handleImageMeasureDistance(args)
	default:
		return nil, errors.Wrapf(ErrUnknownTool, "%s", name)
	}
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errors.Wrap(err, "invalid arguments")
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

// rectArgs is a region given by its edges; x2 and y2 are exclusive.
type rectArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r rectArgs) rect() geom.Rectangle {
	return geom.FromLTRB(r.X1, r.Y1, r.X2, r.Y2)
}

func (r rectArgs) isZero() bool { return r == rectArgs{} }

// === Basic Image Information ===

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return bitmap.LoadImageInfo(s.cache, a.Path)
}

// === Color Conversion ===

type imageConvertArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

// ConvertResult is a converted image. HSV has no packed bitmap encoding, so
// it is returned as one grayscale plane per channel instead of Image.
type ConvertResult struct {
	Color  string                 `json:"color"`
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
	Image  *bitmap.EncodedImage   `json:"image,omitempty"`
	Planes []*bitmap.EncodedImage `json:"planes,omitempty"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res := &ConvertResult{Color: strings.ToLower(a.Color), Width: img.Width(), Height: img.Height()}
	switch res.Color {
	case "gray":
		res.Image, err = convertEncode[colors.Gray[uint8]](img, s)
	case "bgr":
		res.Image, err = convertEncode[colors.Bgr[uint8]](img, s)
	case "bgra":
		res.Image, err = bitmap.EncodeBase64(img, s.format)
	case "rgb":
		res.Image, err = convertEncode[colors.Rgb[uint8]](img, s)
	case "hsv":
		res.Planes, err = s.hsvPlanes(img)
	default:
		return nil, errors.Newf("unsupported color %q: want gray, bgr, bgra, rgb or hsv", a.Color)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func convertEncode[D colorinfo.Color](img *imgbuf.Image[bitmap.Pixel], s *Server) (*bitmap.EncodedImage, error) {
	out, err := imgbuf.ConvertTo[bitmap.Pixel, D](img)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	return bitmap.EncodeBase64(out, s.format)
}

func (s *Server) hsvPlanes(img *imgbuf.Image[bitmap.Pixel]) ([]*bitmap.EncodedImage, error) {
	bgr, err := imgbuf.ConvertTo[bitmap.Pixel, colors.Bgr[uint8]](img)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	hsv, err := imgbuf.Convert(bgr, colors.BgrToHsv8)
	if err != nil {
		return nil, err
	}
	defer hsv.Close()

	return encodePlanes(s, hsv, nil)
}

// === Channel Operations ===

type imageSplitArgs struct {
	Path     string `json:"path"`
	Channels []int  `json:"channels"`
}

// ChannelImage is one extracted channel plane.
type ChannelImage struct {
	Index int                  `json:"index"`
	Name  string               `json:"name"`
	Image *bitmap.EncodedImage `json:"image"`
}

var bgraNames = [...]string{"blue", "green", "red", "alpha"}

func (s *Server) handleImageSplitChannels(args json.RawMessage) (interface{}, error) {
	var a imageSplitArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	encoded, err := encodePlanes(s, img, a.Channels)
	if err != nil {
		return nil, err
	}

	indices := a.Channels
	if len(indices) == 0 {
		indices = []int{0, 1, 2, 3}
	}
	out := make([]ChannelImage, len(encoded))
	for i, e := range encoded {
		out[i] = ChannelImage{Index: indices[i], Name: bgraNames[indices[i]], Image: e}
	}
	return map[string]interface{}{"channels": out}, nil
}

// encodePlanes splits an 8-bit image into channel planes and encodes each
// as grayscale. No channels means all of them.
func encodePlanes[C colorinfo.Color](s *Server, img *imgbuf.Image[C], channels []int) ([]*bitmap.EncodedImage, error) {
	planes, err := imgbuf.SplitChannels[C, uint8](img, channels...)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()

	out := make([]*bitmap.EncodedImage, len(planes))
	for i, p := range planes {
		if out[i], err = bitmap.EncodeBase64(p, s.format); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === Region Operations ===

type imageCropArgs struct {
	Path string `json:"path"`
	rectArgs
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return bitmap.Crop(img, a.rect(), a.Scale, s.format)
}

type imageCropRegionArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageCropRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := bitmap.Region(a.Region, img.Size())
	if err != nil {
		return nil, err
	}
	return bitmap.Crop(img, r, a.Scale, s.format)
}

// === Color Sampling and Statistics ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return bitmap.SampleColor(img, a.X, a.Y)
}

type imageChannelStatsArgs struct {
	Path string `json:"path"`
	rectArgs
}

// ChannelStatsResult holds the statistics of each BGRA channel over a region.
type ChannelStatsResult struct {
	Region   geom.Rectangle       `json:"region"`
	Channels []bitmap.ChannelStat `json:"channels"`
}

func (s *Server) handleImageChannelStats(args json.RawMessage) (interface{}, error) {
	var a imageChannelStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	area := img.Bounds()
	if !a.rectArgs.isZero() {
		area = a.rect()
	}
	stats, err := bitmap.ChannelStats[bitmap.Pixel, uint8](img, area)
	if err != nil {
		return nil, err
	}
	return &ChannelStatsResult{Region: area, Channels: stats}, nil
}

type imageMeasureArgs struct {
	Path string `json:"path"`
	rectArgs
}

func (s *Server) handleImageMeasureDistance(args json.RawMessage) (interface{}, error) {
	var a imageMeasureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	m := annotate.Measure(geom.Pt(a.X1, a.Y1), geom.Pt(a.X2, a.Y2), img.Size())
	return &m, nil
}

// === Masks ===

type imageMaskRectArgs struct {
	Path string `json:"path"`
	rectArgs
	Color string `json:"color"`
}

func (s *Server) handleImageMaskRect(args json.RawMessage) (interface{}, error) {
	var a imageMaskRectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.paintMasked(a.Path, a.Color, func(m *imgbuf.Mask) error {
		r := annotate.RectFromDrag(geom.Pt(a.X1, a.Y1), geom.Pt(a.X2, a.Y2))
		return annotate.FillRectangle(m, r)
	})
}

type imageMaskPolygonArgs struct {
	Path      string       `json:"path"`
	Points    []geom.Point `json:"points"`
	Thickness int          `json:"thickness"`
	Color     string       `json:"color"`
}

func (s *Server) handleImageMaskPolygon(args json.RawMessage) (interface{}, error) {
	var a imageMaskPolygonArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.paintMasked(a.Path, a.Color, func(m *imgbuf.Mask) error {
		if a.Thickness > 0 {
			return annotate.DrawStroke(m, a.Points, a.Thickness)
		}
		return annotate.FillPolygon(m, a.Points)
	})
}

// paintMasked copies the image at path, sets the pixels selected by draw to
// the hex color and returns the encoded result. The cached image is not
// modified.
func (s *Server) paintMasked(path, hex string, draw func(*imgbuf.Mask) error) (*bitmap.EncodedImage, error) {
	fill, err := parseHexColor(hex)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	mask, err := annotate.Mask(img.Size())
	if err != nil {
		return nil, err
	}
	defer mask.Close()
	if err := draw(mask); err != nil {
		return nil, err
	}

	out, err := img.Clone()
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := imgbuf.SetValueMasked(out, fill, mask); err != nil {
		return nil, err
	}
	return bitmap.EncodeBase64(out, s.format)
}

// parseHexColor parses "#RRGGBB" or "#RGB" (the "#" is optional) into an
// opaque pixel.
func parseHexColor(hex string) (bitmap.Pixel, error) {
	if hex == "" {
		return bitmap.Pixel{}, errors.New("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return bitmap.Pixel{}, errors.Newf("invalid color %q: want #RGB or #RRGGBB", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return bitmap.Pixel{}, errors.Wrapf(err, "invalid color %q", hex)
	}
	r, g, b := c.RGB255()
	return bitmap.Pixel{B: b, G: g, R: r, A: 255}, nil
}
