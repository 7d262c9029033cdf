package metadata

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
)

// ParseModuleDocument decodes a module metadata file. The file holds either a
// single document or an array of documents for different versions, in which
// case the newest supported version wins.
func ParseModuleDocument(path string, data []byte) (*ModuleDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, cerrors.NewMalformedDocument(path, "empty document")
	}

	var docs []*ModuleDocument
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, cerrors.NewMalformedDocument(path, err.Error())
		}
	} else {
		var doc ModuleDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, cerrors.NewMalformedDocument(path, err.Error())
		}
		docs = append(docs, &doc)
	}

	var best *ModuleDocument
	newest := 0
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.Symbolic != "" && doc.Symbolic != KindModule {
			return nil, cerrors.NewMalformedDocument(path,
				fmt.Sprintf("expected __symbolic %q, got %q", KindModule, doc.Symbolic))
		}
		if doc.Version > MaxVersion {
			newest = max(newest, doc.Version)
			continue
		}
		if best == nil || doc.Version > best.Version {
			best = doc
		}
	}
	if best == nil {
		if newest > 0 {
			return nil, cerrors.NewUnsupportedVersion(path, newest, MaxVersion)
		}
		return nil, cerrors.NewMalformedDocument(path, "no module document found")
	}
	if best.Metadata == nil {
		best.Metadata = map[string]Node{}
	}
	return best, nil
}

// Serialize converts a document to JSON. Map keys are emitted in sorted
// order, so the same document always produces the same bytes.
func Serialize(doc *ModuleDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	return data, nil
}

// Compress compresses data using gzip compression.
func Compress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	if len(data) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses gzip-compressed data.
func Decompress(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	if len(data) == 0 {
		return []byte{}, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}

	return decompressed, nil
}
