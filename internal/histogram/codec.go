package histogram

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrReadOnly is returned when writing to a format that can only be read.
var ErrReadOnly = errors.New("format is read-only")

// Codec converts histogram data to and from one file format.
type Codec interface {
	Decode(r io.Reader) (map[int]float64, error)
	Encode(w io.Writer, h *Hist) error
}

var codecs = map[string]Codec{
	"bin":  binCodec{},
	"txt":  txtCodec{},
	"json": jsonCodec{},
	"csv":  csvCodec{},
	"png":  imageCodec{},
	"jpg":  imageCodec{},
	"jpeg": imageCodec{},
	"bmp":  imageCodec{},
	"gif":  imageCodec{},
}

// CodecFor returns the codec for a path's extension (case-insensitive).
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported histogram format %q for %s", ext, path)
	}
	return c, nil
}

// Read decodes the histogram stored at path.
func Read(path string) (*Hist, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open histogram: %w", err)
	}
	defer f.Close()

	data, err := codec.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode histogram %s: %w", path, err)
	}
	return &Hist{data: data}, nil
}

// Write encodes h to path, replacing any existing file.
func Write(path string, h *Hist) (err error) {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}
	if _, ok := codec.(imageCodec); ok {
		return fmt.Errorf("cannot write histogram to %s: %w", path, ErrReadOnly)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close histogram file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := codec.Encode(w, h); err != nil {
		return fmt.Errorf("failed to encode histogram %s: %w", path, err)
	}
	return w.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// binCodec stores exactly Bins little-endian float32 values.
type binCodec struct{}

func (binCodec) Decode(r io.Reader) (map[int]float64, error) {
	var values [Bins]float32
	if err := binary.Read(r, binary.LittleEndian, &values); err != nil {
		return nil, fmt.Errorf("want %d float32 values: %w", Bins, err)
	}
	if n, _ := r.Read(make([]byte, 1)); n != 0 {
		return nil, fmt.Errorf("trailing data after %d float32 values", Bins)
	}
	data := make(map[int]float64, Bins)
	for k, v := range values {
		data[k] = float64(v)
	}
	return data, nil
}

func (binCodec) Encode(w io.Writer, h *Hist) error {
	for _, k := range h.Keys() {
		if k < 0 || k >= Bins {
			return fmt.Errorf("key %d outside [0, %d)", k, Bins)
		}
	}
	dense := h.Dense()
	var values [Bins]float32
	for k, v := range dense {
		values[k] = float32(v)
	}
	return binary.Write(w, binary.LittleEndian, values)
}

// txtCodec stores "key value" lines.
type txtCodec struct{}

func (txtCodec) Decode(r io.Reader) (map[int]float64, error) {
	data := make(map[int]float64)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"key value\", got %q", line, scanner.Text())
		}
		k, v, err := parsePair(fields[0], fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		data[k] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func (txtCodec) Encode(w io.Writer, h *Hist) error {
	for _, k := range h.Keys() {
		if _, err := fmt.Fprintf(w, "%d %s\n", k, formatValue(h.data[k])); err != nil {
			return err
		}
	}
	return nil
}

// csvCodec stores "key,value" rows.
type csvCodec struct{}

func (csvCodec) Decode(r io.Reader) (map[int]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	data := make(map[int]float64, len(records))
	for i, rec := range records {
		k, v, err := parsePair(rec[0], rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		data[k] = v
	}
	return data, nil
}

func (csvCodec) Encode(w io.Writer, h *Hist) error {
	writer := csv.NewWriter(w)
	for _, k := range h.Keys() {
		if err := writer.Write([]string{strconv.Itoa(k), formatValue(h.data[k])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// jsonCodec stores parallel key and value arrays.
type jsonCodec struct{}

type jsonHist struct {
	Keys   []int     `json:"keys"`
	Values []float64 `json:"values"`
}

func (jsonCodec) Decode(r io.Reader) (map[int]float64, error) {
	var payload jsonHist
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Keys) != len(payload.Values) {
		return nil, fmt.Errorf("%d keys but %d values", len(payload.Keys), len(payload.Values))
	}
	data := make(map[int]float64, len(payload.Keys))
	for i, k := range payload.Keys {
		data[k] = payload.Values[i]
	}
	return data, nil
}

func (jsonCodec) Encode(w io.Writer, h *Hist) error {
	return json.NewEncoder(w).Encode(jsonHist{Keys: h.Keys(), Values: h.Values()})
}

// imageCodec derives a luminance histogram from an image file.
type imageCodec struct{}

func (imageCodec) Decode(r io.Reader) (map[int]float64, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	hist := imaging.Histogram(img)
	return FromDense(hist[:]).data, nil
}

func (imageCodec) Encode(io.Writer, *Hist) error {
	return ErrReadOnly
}

func parsePair(key, value string) (int, float64, error) {
	k, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid key %q", key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) {
		return 0, 0, fmt.Errorf("invalid value %q", value)
	}
	return k, v, nil
}
