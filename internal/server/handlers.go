package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stuartaccent/images/internal/filter"
	"github.com/stuartaccent/images/internal/geometry"
	"github.com/stuartaccent/images/internal/imaging"
	"github.com/stuartaccent/images/internal/rendition"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "rendition_get", "filter_parse").
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
// Invalid filter specs and malformed arguments return code -32602; other tool
// errors return code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Errorw("tool failed", "tool", params.Name, "error", err)
		if filter.IsInvalidFilterSpec(err) || isArgumentError(err) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Images
	case "image_load":
		return s.handleImageLoad(args)
	case "image_import":
		return s.handleImageImport(ctx, args)
	case "image_list":
		return s.images.list(), nil
	case "image_set_focal_point":
		return s.handleImageSetFocalPoint(ctx, args)
	case "image_delete":
		return s.handleImageDelete(ctx, args)

	// Filter specs
	case "filter_parse":
		return s.handleFilterParse(args)
	case "rendition_cache_key":
		return s.handleRenditionCacheKey(args)
	case "rendition_filename":
		return s.handleRenditionFilename(args)

	// Renditions
	case "rendition_generate":
		return s.handleRenditionGenerate(args)
	case "rendition_get":
		return s.handleRenditionGet(ctx, args)
	case "rendition_list":
		return s.handleRenditionList(ctx, args)
	case "renditions_regenerate":
		return s.handleRenditionsRegenerate(ctx)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
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

// argumentError marks a tool call whose arguments are unusable.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string { return "invalid arguments: " + e.err.Error() }
func (e *argumentError) Unwrap() error { return e.err }

func isArgumentError(err error) bool {
	var ae *argumentError
	return errors.As(err, &ae)
}

// decodeArgs unmarshals tool arguments into v.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argumentError{err: err}
	}
	return nil
}

func requireString(name, value string) error {
	if value == "" {
		return &argumentError{err: fmt.Errorf("%s is required", name)}
	}
	return nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("path", a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

type imageImportArgs struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

func (s *Server) handleImageImport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageImportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("path", a.Path); err != nil {
		return nil, err
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img := &rendition.Image{
		ID:    s.images.nextImageID(),
		Title: a.Title,
		File:  filepath.Base(a.Path),
	}
	if img.Title == "" {
		img.Title = img.File
	}

	if err := s.service.ImportImage(ctx, img, f); err != nil {
		return nil, err
	}
	s.images.add(img)
	return img, nil
}

type imageIDArgs struct {
	ImageID int64 `json:"image_id"`
}

type imageSetFocalPointArgs struct {
	ImageID int64   `json:"image_id"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	Clear   bool    `json:"clear"`
}

func (s *Server) handleImageSetFocalPoint(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSetFocalPointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.images.get(a.ImageID)
	if err != nil {
		return nil, err
	}

	if a.Clear {
		img.SetFocalPoint(nil)
	} else {
		r := geometry.NewRect(a.Left, a.Top, a.Right, a.Bottom)
		if r.Left < 0 || r.Top < 0 {
			return nil, &argumentError{err: fmt.Errorf("focal point %s is outside the image", r)}
		}
		img.SetFocalPoint(&r)
	}

	if err := s.service.CreateDefaultRenditions(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Server) handleImageDelete(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.images.get(a.ImageID)
	if err != nil {
		return nil, err
	}

	if err := s.service.DeleteImage(ctx, img); err != nil {
		return nil, err
	}
	s.images.remove(img.ID)
	return map[string]interface{}{"deleted": img.ID}, nil
}

// === Filter Spec Handlers ===

type specArgs struct {
	Spec string `json:"spec"`
}

// OperationInfo describes one parsed operation.
type OperationInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// FilterParseResult is the result of filter_parse.
type FilterParseResult struct {
	Spec               string          `json:"spec"`
	ResolvedSpec       string          `json:"resolved_spec"`
	Operations         []OperationInfo `json:"operations"`
	VariesOnFocalPoint bool            `json:"varies_on_focal_point"`
}

func (s *Server) handleFilterParse(args json.RawMessage) (interface{}, error) {
	var a specArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	f := s.service.Filter(a.Spec)
	ops, err := f.Operations()
	if err != nil {
		return nil, err
	}

	result := &FilterParseResult{
		Spec:               f.Spec(),
		ResolvedSpec:       f.ResolvedSpec(),
		Operations:         make([]OperationInfo, 0, len(ops)),
		VariesOnFocalPoint: filter.CacheKey(ops, nil) != "",
	}
	for _, op := range ops {
		result.Operations = append(result.Operations, OperationInfo{Name: op.Name(), Kind: op.Kind().String()})
	}
	return result, nil
}

type cacheKeyArgs struct {
	Spec       string               `json:"spec"`
	FocalPoint *geometry.FocalPoint `json:"focal_point"`
}

func (s *Server) handleRenditionCacheKey(args json.RawMessage) (interface{}, error) {
	var a cacheKeyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.FocalPoint != nil && !a.FocalPoint.Valid() {
		return nil, &argumentError{err: fmt.Errorf("focal point values must be non-negative")}
	}

	ops, err := s.service.Filter(a.Spec).Operations()
	if err != nil {
		return nil, err
	}
	return map[string]string{"cache_key": filter.CacheKey(ops, a.FocalPoint)}, nil
}

type filenameArgs struct {
	Source string `json:"source"`
	Spec   string `json:"spec"`
	Format string `json:"format"`
}

func (s *Server) handleRenditionFilename(args json.RawMessage) (interface{}, error) {
	var a filenameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	switch a.Format {
	case filter.FormatJPEG, filter.FormatPNG, filter.FormatGIF:
	default:
		return nil, &argumentError{err: fmt.Errorf("format must be jpeg, png or gif, got %q", a.Format)}
	}

	f := s.service.Filter(a.Spec)
	if _, err := f.Operations(); err != nil {
		return nil, err
	}
	return map[string]string{"filename": rendition.Filename(a.Source, f.ResolvedSpec(), a.Format)}, nil
}

// === Rendition Handlers ===

type generateArgs struct {
	Path       string               `json:"path"`
	Spec       string               `json:"spec"`
	OutputPath string               `json:"output_path"`
	FocalPoint *geometry.FocalPoint `json:"focal_point"`
}

// GenerateResult is the result of rendition_generate.
type GenerateResult struct {
	filter.Result
	OutputPath    string `json:"output_path"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// NewFileSource returns a filter source reading the local file at path.
func NewFileSource(path string, focal *geometry.FocalPoint) filter.Source {
	return &fileSource{path: path, focal: focal}
}

type fileSource struct {
	path  string
	focal *geometry.FocalPoint
}

func (s *fileSource) Open() (io.ReadCloser, error)     { return os.Open(s.path) }
func (s *fileSource) FocalPoint() *geometry.FocalPoint { return s.focal }

func (s *Server) handleRenditionGenerate(args json.RawMessage) (interface{}, error) {
	var a generateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireString("path", a.Path); err != nil {
		return nil, err
	}
	if err := requireString("output_path", a.OutputPath); err != nil {
		return nil, err
	}

	return Render(s.backend, s.service.Filter(a.Spec), NewFileSource(a.Path, a.FocalPoint), a.OutputPath)
}

// Render runs f over src and writes the output to outputPath. An existing
// file at outputPath is left untouched if rendering fails.
func Render(backend filter.Backend, f *filter.Filter, src filter.Source, outputPath string) (*GenerateResult, error) {
	if _, err := f.Operations(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// The rendition is written beside the target and renamed over it only
	// once encoding succeeds, so the output may safely name the source.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()

	res, err := f.Run(backend, src, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output file: %w", cerr)
	}
	if err == nil {
		if cerr := os.Chmod(tmpPath, 0644); cerr != nil {
			err = fmt.Errorf("failed to set output permissions: %w", cerr)
		}
	}
	if err == nil {
		if rerr := os.Rename(tmpPath, outputPath); rerr != nil {
			err = fmt.Errorf("failed to move output file into place: %w", rerr)
		}
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	st, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output file: %w", err)
	}
	return &GenerateResult{Result: *res, OutputPath: outputPath, FileSizeBytes: st.Size()}, nil
}

type renditionGetArgs struct {
	ImageID int64  `json:"image_id"`
	Spec    string `json:"spec"`
}

func (s *Server) handleRenditionGet(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renditionGetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.images.get(a.ImageID)
	if err != nil {
		return nil, err
	}
	return s.service.GetRenditionOrNotFound(ctx, img, a.Spec)
}

func (s *Server) handleRenditionList(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.images.get(a.ImageID)
	if err != nil {
		return nil, err
	}
	return s.service.Renditions(ctx, img)
}

func (s *Server) handleRenditionsRegenerate(ctx context.Context) (interface{}, error) {
	images := s.images.list()
	if err := s.service.RegenerateAll(ctx, images, nil); err != nil {
		return nil, err
	}
	return map[string]int{"images": len(images)}, nil
}
