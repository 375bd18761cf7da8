package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseTracerPid reads the TracerPid field from a /proc/<pid>/status stream.
// A non-zero value means another process is tracing this one.
func parseTracerPid(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || key != "TracerPid" {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid TracerPid %q: %w", value, err)
		}
		return pid, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read process status: %w", err)
	}
	return 0, fmt.Errorf("TracerPid not found in process status")
}
