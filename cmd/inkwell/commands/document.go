package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// stdioPath names standard output in path arguments.
const stdioPath = "-"

// loadRaw reads a raw document from path, checking it against the schema
// when encoding.validate_schema is set.
func (a *app) loadRaw(path string) (*raw.Document, error) {
	doc, err := raw.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if a.cfg.Encoding.ValidateSchema {
		err = raw.CheckDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return doc, nil
}

// loadContent reads path and decodes it into a document.
func (a *app) loadContent(path string) (*raw.Document, document.ContentState, error) {
	doc, err := a.loadRaw(path)
	if err != nil {
		return nil, document.ContentState{}, err
	}

	cs, err := raw.Decode(*doc, nil)
	if err != nil {
		return nil, document.ContentState{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return doc, cs, nil
}

// codecFor returns the named codec with the configured JSON indent.
func (a *app) codecFor(name string) (raw.Codec, error) {
	codec, err := raw.NewCodec(name)
	if err != nil {
		return nil, err
	}

	return a.indent(codec), nil
}

// codecForPath picks the codec by extension and applies the configured
// JSON indent.
func (a *app) codecForPath(path string) (raw.Codec, error) {
	codec, err := raw.CodecForPath(path)
	if err != nil {
		return nil, err
	}

	return a.indent(codec), nil
}

func (a *app) indent(codec raw.Codec) raw.Codec {
	if jc, ok := codec.(*raw.JSONCodec); ok {
		jc.Indent = strings.Repeat(" ", a.cfg.Encoding.Indent)
	}

	return codec
}

// writeRaw writes doc to path, or to stdout with the configured codec when
// path is empty or "-".
func (a *app) writeRaw(stdout io.Writer, path string, doc *raw.Document) error {
	if path != "" && path != stdioPath {
		codec, err := a.codecForPath(path)
		if err != nil {
			return err
		}

		return raw.SaveFile(path, codec, doc)
	}

	codec, err := a.codecFor(a.cfg.Encoding.Codec)
	if err != nil {
		return err
	}

	return codec.Encode(stdout, doc)
}

// fileSize reports the size of path, or zero when it cannot be read.
func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil || info.Size() < 0 {
		return 0
	}

	return uint64(info.Size())
}
