package datasets

import (
	"bufio"
	"io"
	"strings"

	"github.com/mamedex/mamedex/pkg/errors"
)

// iniLine is one meaningful line of an ini-style dataset.
type iniLine struct {
	// section is the current [section] name, without brackets.
	section string

	// key and value are set for key=value lines; for bare entry lines
	// the whole line is in key and value is empty.
	key   string
	value string

	// number is the 1-based line number.
	number int
}

// scanINI walks an ini-style file line by line, tracking the current
// section and skipping comments (';'), folder-settings boilerplate and
// blank lines. fn is called for every entry line.
func scanINI(kind Kind, r io.Reader, fn func(iniLine) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	number := 0
	for scanner.Scan() {
		number++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			section = strings.Trim(line, "[]")
			continue
		}

		if section == "FOLDER_SETTINGS" || section == "ROOT_FOLDER" {
			continue
		}

		entry := iniLine{section: section, key: line, number: number}
		if idx := strings.IndexByte(line, '='); idx >= 0 {
			entry.key = strings.TrimSpace(line[:idx])
			entry.value = strings.TrimSpace(line[idx+1:])
		}

		if err := fn(entry); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &errors.FormatError{
			Dataset: kind.String(),
			Message: "reading input",
			Err:     err,
		}
	}
	return nil
}
