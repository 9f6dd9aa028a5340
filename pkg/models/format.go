package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// ErrUnsupportedFormat is returned when a file is neither OBJ nor glTF.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format identifies a mesh file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatOBJ            // Wavefront OBJ text
	FormatGLB            // binary glTF container
	FormatGLTF           // JSON glTF
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatGLB:
		return "glb"
	case FormatGLTF:
		return "gltf"
	default:
		return "unknown"
	}
}

var (
	typeGLB  = filetype.NewType("glb", "model/gltf-binary")
	typeGLTF = filetype.NewType("gltf", "model/gltf+json")
	typeOBJ  = filetype.NewType("obj", "model/obj")
)

func init() {
	filetype.AddMatcher(typeGLB, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("glTF"))
	})
	filetype.AddMatcher(typeGLTF, func(buf []byte) bool {
		trimmed := bytes.TrimSpace(buf)
		return bytes.HasPrefix(trimmed, []byte("{")) && bytes.Contains(trimmed, []byte(`"asset"`))
	})
	filetype.AddMatcher(typeOBJ, matchOBJ)
}

// matchOBJ accepts text whose first record is one OBJ keyword.
func matchOBJ(buf []byte) bool {
	for _, line := range bytes.Split(buf, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		keyword, _, _ := bytes.Cut(line, []byte(" "))
		switch string(keyword) {
		case "v", "vt", "vn", "f", "o", "g", "s", "mtllib", "usemtl":
			return true
		}
		return false
	}
	return false
}

// FormatFromExt maps a file extension (with or without the dot) to a Format.
func FormatFromExt(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "obj":
		return FormatOBJ
	case "glb":
		return FormatGLB
	case "gltf":
		return FormatGLTF
	default:
		return FormatUnknown
	}
}

// SniffFormat inspects the head of a file's content.
func SniffFormat(head []byte) Format {
	kind, err := filetype.Match(head)
	if err != nil || kind == types.Unknown {
		return FormatUnknown
	}
	return FormatFromExt(kind.Extension)
}

// DetectFormat picks the format from the path extension, falling back to
// sniffing the first bytes of the file.
func DetectFormat(path string) (Format, error) {
	if f := FormatFromExt(filepath.Ext(path)); f != FormatUnknown {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open model: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read model: %w", err)
	}

	if f := SniffFormat(head[:n]); f != FormatUnknown {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Load reads a mesh in any supported format.
func Load(path string) (*Mesh, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatOBJ:
		return LoadOBJ(path)
	case FormatGLB, FormatGLTF:
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
