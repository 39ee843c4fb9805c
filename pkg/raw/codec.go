package raw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/inkwell/pkg/textutil"
)

// Codec names accepted by NewCodec.
const (
	CodecJSON = "json"
	CodecYAML = "yaml"
	CodecLZ4  = "lz4"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
	ymlExtension  = ".yml"
	lz4Extension  = ".lz4"
)

// Default indentation for pretty-printed output.
const defaultIndent = "  "

const yamlIndent = 2

// Codec defines how a raw document is serialized and deserialized.
type Codec interface {
	// Encode writes doc to the writer.
	Encode(w io.Writer, doc *Document) error
	// Decode reads a document from the reader.
	Decode(r io.Reader, doc *Document) error
	// Extension returns the file extension for this codec (e.g., ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, doc *Document) error {
	err := json.NewDecoder(r).Decode(doc)
	if err != nil {
		return fmt.Errorf("%w: json decode: %w", ErrInvalidDocument, err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, doc *Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, doc *Document) error {
	err := yaml.NewDecoder(r).Decode(doc)
	if err != nil {
		return fmt.Errorf("%w: yaml decode: %w", ErrInvalidDocument, err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// LZ4Codec stores compact JSON inside an LZ4 frame.
type LZ4Codec struct {
	inner JSONCodec
}

// NewLZ4Codec creates an LZ4 snapshot codec.
func NewLZ4Codec() *LZ4Codec {
	return &LZ4Codec{}
}

// Encode implements Codec.Encode by compressing compact JSON.
func (c *LZ4Codec) Encode(w io.Writer, doc *Document) error {
	zw := lz4.NewWriter(w)

	err := c.inner.Encode(zw, doc)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode by decompressing the frame first.
func (c *LZ4Codec) Decode(r io.Reader, doc *Document) error {
	return c.inner.Decode(lz4.NewReader(r), doc)
}

// Extension implements Codec.Extension for LZ4 snapshots.
func (c *LZ4Codec) Extension() string {
	return lz4Extension
}

// NewCodec returns the codec registered under name.
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case CodecJSON:
		return NewJSONCodec(), nil
	case CodecYAML, "yml":
		return NewYAMLCodec(), nil
	case CodecLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// CodecForPath picks a codec from the file extension of path.
func CodecForPath(path string) (Codec, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case jsonExtension:
		return NewJSONCodec(), nil
	case yamlExtension, ymlExtension:
		return NewYAMLCodec(), nil
	case lz4Extension:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnknownCodec, ext)
	}
}

// SaveFile writes doc to path using codec.
func SaveFile(path string, codec Codec, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document file: %w", err)
	}
	defer file.Close()

	err = codec.Encode(file, doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return nil
}

// LoadFile reads a document from path, choosing the codec by extension.
// Text codecs reject binary input before decoding.
func LoadFile(path string) (*Document, error) {
	codec, err := CodecForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document file: %w", err)
	}

	return DecodeBytes(codec, data)
}

// DecodeBytes decodes data with codec.
func DecodeBytes(codec Codec, data []byte) (*Document, error) {
	if _, compressed := codec.(*LZ4Codec); !compressed && textutil.IsBinary(data) {
		return nil, fmt.Errorf("%w: binary content for %s codec", ErrInvalidDocument, codec.Extension())
	}

	var doc Document

	err := codec.Decode(bytes.NewReader(data), &doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// EncodeBytes encodes doc with codec.
func EncodeBytes(codec Codec, doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	err := codec.Encode(&buf, doc)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
