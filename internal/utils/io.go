package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ReadLines splits r into lines without their trailing "\n" or "\r\n".
// Used with --password-stdin, where each line is one password.
func ReadLines(r io.Reader) ([][]byte, error) {
	var lines [][]byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, bytes.TrimSuffix(append([]byte(nil), scanner.Bytes()...), []byte("\r")))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}
