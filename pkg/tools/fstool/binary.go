package fstool

import (
	"bytes"
	"io"
	"os"
)

// sniffLen bounds how many leading bytes are sampled when classifying a file.
// Binary formats with no null byte in this window are misclassified as text;
// that is a documented limitation of the heuristic, not a bug.
const sniffLen = 8192

// binaryMarker prefixes base64-encoded binary file content.
const binaryMarker = "[Binary file encoded as base64]\n"

// isBinaryFile samples up to sniffLen leading bytes of the file and reports
// whether the sample contains a null byte. Classification cost is bounded
// regardless of file size. An open or read failure is returned as-is so the
// caller can short-circuit before any content read.
func isBinaryFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}

	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
