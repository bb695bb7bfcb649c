package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-analysis-mcp/internal/detection"
	"github.com/ironsheep/image-analysis-mcp/internal/histogram"
	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_analyze_objects").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errUnknownTool is reported as invalid params rather than a tool failure.
var errUnknownTool = errors.New("unknown tool")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000;
// malformed params and unknown tool names return -32602.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if errors.Is(err, errUnknownTool) {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", params.Name).Msg("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// toolHandler runs one tool on its raw JSON arguments.
type toolHandler func(args json.RawMessage) (interface{}, error)

// withArgs adapts a handler taking decoded arguments to a toolHandler.
// Missing arguments decode as the zero value of T.
func withArgs[T any](fn func(a *T) (interface{}, error)) toolHandler {
	return func(args json.RawMessage) (interface{}, error) {
		a := new(T)
		if len(args) > 0 {
			if err := json.Unmarshal(args, a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return fn(a)
	}
}

// toolHandlers maps every tool in GetToolDefinitions to its handler.
func (s *Server) toolHandlers() map[string]toolHandler {
	return map[string]toolHandler{
		"image_load":       withArgs(s.handleImageLoad),
		"image_dimensions": withArgs(s.handleImageDimensions),
		"image_crop":       withArgs(s.handleImageCrop),

		"image_analyze_objects": withArgs(s.handleImageAnalyzeObjects),
		"image_object_overlay":  withArgs(s.handleImageObjectOverlay),
		"image_crop_objects":    withArgs(s.handleImageCropObjects),

		"image_convert":            withArgs(s.handleImageConvert),
		"image_distance_transform": withArgs(s.handleImageDistanceTransform),
		"image_otsu_threshold":     withArgs(s.handleImageOtsuThreshold),
		"image_edge_detect":        withArgs(s.handleImageEdgeDetect),

		"image_histogram": withArgs(s.handleImageHistogram),
	}
}

// executeTool runs the named tool. Unknown names wrap errUnknownTool.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	handler, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
	return handler(args)
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

type imageLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleImageLoad(a *imageLoadArgs) (interface{}, error) {
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", a.Path).Int("cached", s.cache.Len()).Msg("image loaded")
	return info, nil
}

func (s *Server) handleImageDimensions(a *imagePathArgs) (interface{}, error) {
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(a *imageCropArgs) (interface{}, error) {
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Object Analysis Handlers ===

type imageAnalyzeArgs struct {
	Path     string `json:"path"`
	Mode     string `json:"mode"`
	Filtered bool   `json:"filtered"`
}

// analyze runs the requested pipeline on the file at a.Path.
func (s *Server) analyze(a imageAnalyzeArgs) (*detection.Analysis, error) {
	if a.Mode == "" {
		return nil, fmt.Errorf("mode is required (one of %v)", detection.Modes)
	}
	return detection.AnalyzeFile(s.cache, a.Path, a.Mode, a.Filtered, detection.WithLogger(s.logger))
}

func (s *Server) handleImageAnalyzeObjects(a *imageAnalyzeArgs) (interface{}, error) {
	return s.analyze(*a)
}

type imageObjectOverlayArgs struct {
	imageAnalyzeArgs
	ShowIndex *bool  `json:"show_index"`
	BoxColor  string `json:"box_color"`
}

func (s *Server) handleImageObjectOverlay(a *imageObjectOverlayArgs) (interface{}, error) {
	showIndex := true
	if a.ShowIndex != nil {
		showIndex = *a.ShowIndex
	}

	analysis, err := s.analyze(a.imageAnalyzeArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ObjectOverlay(img, analysis.Objects.Boxes(), showIndex, a.BoxColor)
}

type imageCropObjectsArgs struct {
	imageAnalyzeArgs
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

// cropObjectsResult lists the per-object crops.
type cropObjectsResult struct {
	Count int                   `json:"count"`
	Crops []*imaging.CropResult `json:"crops"`
}

func (s *Server) handleImageCropObjects(a *imageCropObjectsArgs) (interface{}, error) {
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	analysis, err := s.analyze(a.imageAnalyzeArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	crops, err := imaging.CropObjects(img, analysis.Objects.Boxes(), a.Padding, a.Scale)
	if err != nil {
		return nil, err
	}
	return &cropObjectsResult{Count: len(crops), Crops: crops}, nil
}

// === Conversion Handlers ===

type imageConvertArgs struct {
	Path       string   `json:"path"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	Threshold  *int     `json:"threshold"`
	Palette    string   `json:"palette"`
	TargetMean *float64 `json:"target_mean"`
	TargetStd  *float64 `json:"target_std"`
}

// convertResult is an encoded conversion output.
type convertResult struct {
	Kind string `json:"kind"`
	*imaging.EncodedImage
}

// palette resolves a palette name, falling back to the configured default.
func (s *Server) palette(name string) (*imaging.Array, error) {
	if name == "" {
		name = s.cfg.Palette
	}
	return imaging.NamedPalette(name)
}

func (s *Server) handleImageConvert(a *imageConvertArgs) (interface{}, error) {
	if a.From == "" {
		a.From = string(imaging.KindColor)
	}
	from, err := imaging.ParseKind(a.From)
	if err != nil {
		return nil, err
	}
	to, err := imaging.ParseKind(a.To)
	if err != nil {
		return nil, err
	}
	if (a.TargetMean == nil) != (a.TargetStd == nil) {
		return nil, fmt.Errorf("target_mean and target_std must be given together")
	}
	threshold := imaging.AutoThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	src, err := imaging.ReadTyped(s.cache, a.Path, from)
	if err != nil {
		return nil, err
	}

	out, err := s.convert(src, to, threshold, a.Palette)
	if err != nil {
		return nil, err
	}

	if a.TargetMean != nil {
		switch img := out.(type) {
		case *imaging.MonoImage:
			out = imaging.StatNormalize(img, *a.TargetMean, *a.TargetStd)
		case *imaging.ColorImage:
			m, sd := *a.TargetMean, *a.TargetStd
			out = imaging.StatNormalizeColor(img, [3]float64{m, m, m}, [3]float64{sd, sd, sd})
		default:
			return nil, fmt.Errorf("statistical normalization does not apply to %s images", to)
		}
	}

	encoded, err := imaging.EncodeTyped(out)
	if err != nil {
		return nil, err
	}
	return &convertResult{Kind: string(to), EncodedImage: encoded}, nil
}

// convert applies the conversion from src's kind to the target kind.
func (s *Server) convert(src imaging.TypedImage, to imaging.Kind, threshold int, paletteName string) (imaging.TypedImage, error) {
	switch img := src.(type) {
	case *imaging.BinaryImage:
		switch to {
		case imaging.KindBinary:
			return imaging.BinaryCopy(img), nil
		case imaging.KindMono:
			return imaging.DistanceFromBinary(img), nil
		case imaging.KindColor:
			palette, err := s.palette(paletteName)
			if err != nil {
				return nil, err
			}
			return imaging.ColorFromBinary(img, palette)
		}
	case *imaging.MonoImage:
		switch to {
		case imaging.KindBinary:
			return imaging.BinaryFromMono(img, threshold), nil
		case imaging.KindMono:
			return img, nil
		case imaging.KindColor:
			palette, err := s.palette(paletteName)
			if err != nil {
				return nil, err
			}
			return imaging.ColorFromMono(img, palette)
		}
	case *imaging.ColorImage:
		switch to {
		case imaging.KindBinary:
			return imaging.BinaryFromColor(img, threshold), nil
		case imaging.KindMono:
			return imaging.GrayFromColor(img), nil
		case imaging.KindColor:
			return img, nil
		}
	}
	return nil, fmt.Errorf("unsupported conversion to %s", to)
}

type imageDistanceTransformArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
	Palette   string `json:"palette"`
}

func (s *Server) handleImageDistanceTransform(a *imageDistanceTransformArgs) (interface{}, error) {
	threshold := imaging.AutoThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	mono, err := imaging.ReadTyped(s.cache, a.Path, imaging.KindMono)
	if err != nil {
		return nil, err
	}
	binary := imaging.BinaryFromMono(mono.(*imaging.MonoImage), threshold)

	var out imaging.TypedImage = imaging.DistanceFromBinary(binary)
	if a.Palette != "" {
		palette, err := imaging.NamedPalette(a.Palette)
		if err != nil {
			return nil, err
		}
		if out, err = imaging.ColorFromBinary(binary, palette); err != nil {
			return nil, err
		}
	}
	return imaging.EncodeTyped(out)
}

// otsuResult reports a computed threshold and the foreground it selects.
type otsuResult struct {
	Threshold        int `json:"threshold"`
	ForegroundPixels int `json:"foreground_pixels"`
	TotalPixels      int `json:"total_pixels"`
}

func (s *Server) handleImageOtsuThreshold(a *imagePathArgs) (interface{}, error) {
	typed, err := imaging.ReadTyped(s.cache, a.Path, imaging.KindMono)
	if err != nil {
		return nil, err
	}
	mono := typed.(*imaging.MonoImage)

	threshold := imaging.OtsuThreshold(mono)
	hist := imaging.Histogram256(mono)
	fg := 0
	for v := threshold + 1; v < len(hist); v++ {
		fg += hist[v]
	}
	return &otsuResult{
		Threshold:        threshold,
		ForegroundPixels: fg,
		TotalPixels:      mono.Width() * mono.Height(),
	}, nil
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(a *imageEdgeDetectArgs) (interface{}, error) {
	if a.ThresholdLow == 0 {
		a.ThresholdLow = imaging.CannyLowThreshold
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = imaging.CannyHighThreshold
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

// === Histogram Handlers ===

type imageHistogramArgs struct {
	Path      string `json:"path"`
	Weighting string `json:"weighting"`
	SaveTo    string `json:"save_to"`
}

// histogramResult lists a histogram in key order.
type histogramResult struct {
	Bins    int       `json:"bins"`
	Keys    []int     `json:"keys"`
	Values  []float64 `json:"values"`
	SavedTo string    `json:"saved_to,omitempty"`
}

func (s *Server) handleImageHistogram(a *imageHistogramArgs) (interface{}, error) {
	var (
		h   *histogram.Hist
		err error
	)
	switch strings.ToLower(a.Weighting) {
	case "", "luminance":
		h, err = histogram.Read(a.Path)
	case "average":
		var typed imaging.TypedImage
		typed, err = imaging.ReadTyped(s.cache, a.Path, imaging.KindMono)
		if err == nil {
			h = histogram.FromMono(typed.(*imaging.MonoImage))
		}
	default:
		return nil, fmt.Errorf("unknown weighting %q (want luminance or average)", a.Weighting)
	}
	if err != nil {
		return nil, err
	}

	result := &histogramResult{Bins: h.Len(), Keys: h.Keys(), Values: h.Values()}
	if a.SaveTo != "" {
		if err := histogram.Write(a.SaveTo, h); err != nil {
			return nil, err
		}
		result.SavedTo = filepath.Clean(a.SaveTo)
	}
	return result, nil
}
