package theme

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads a theme definition from an io.Reader.
// The format is one pair per line: Key: #RRGGBB, #RRGGBBAA or a colour name.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "Name" {
			t.Name = value
			continue
		}
		if err := t.Set(key, value); err != nil {
			return nil, fmt.Errorf("invalid color for key %s: %w", key, err)
		}
	}

	return t, scanner.Err()
}
