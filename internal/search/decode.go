package search

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrUndecodable is returned for a non-empty file with no valid UTF-8 content.
var ErrUndecodable = errors.New("file contains no decodable UTF-8 text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw file bytes to text. Invalid UTF-8 sequences are
// dropped rather than replaced, and a leading byte order mark is removed.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	text := strings.ToValidUTF8(string(data), "")
	if text == "" {
		return "", ErrUndecodable
	}
	return text, nil
}

// ReadText reads the whole file at path and decodes it with DecodeText.
// The file is closed before ReadText returns.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return text, nil
}
