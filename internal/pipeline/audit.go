package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/vk/convertkit/internal/discovery"
	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/job"
)

// auditHeader is the first row of the audit file.
var auditHeader = []string{"original", "converted"}

// writeAudit persists the rename audit list as CSV rows of
// original,converted logical paths.
func writeAudit(fs fsio.FS, path string, renames []job.RenameRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(auditHeader); err != nil {
		return fmt.Errorf("writing audit header: %w", err)
	}
	for _, r := range renames {
		if err := w.Write([]string{r.Original, r.Converted}); err != nil {
			return fmt.Errorf("writing audit row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing audit rows: %w", err)
	}
	return fs.WriteFile(path, buf.Bytes())
}

// outputSearch finds files named outputName below root.
func outputSearch(fs fsio.FS, root, outputName string) ([]string, error) {
	return discovery.FindByName(fs, root, outputName)
}
