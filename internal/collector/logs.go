package collector

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// NoLogsMessage is returned when the log file does not exist.
const NoLogsMessage = "No logs found"

// Logs returns the last n lines of the log file, newline-terminated as they
// appear on disk.
func (c *Collector) Logs(n int) (string, error) {
	if n <= 0 {
		n = DefaultLogLines
	}

	f, err := os.Open(c.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return NoLogsMessage, nil
		}
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	ring := make([]string, 0, n)
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if len(ring) == n {
				ring = ring[1:]
			}
			ring = append(ring, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read log file: %w", err)
		}
	}

	return strings.Join(ring, ""), nil
}
