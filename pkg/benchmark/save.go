package benchmark

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// SaveResults serializes the given data as indented JSON to the file,
// overwriting any existing file at that path. Serialization and write
// failures propagate to the caller.
func SaveResults(data any, filename string) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.Wrap(err, "failed to serialize results")
	}
	if err := os.WriteFile(filename, js, 0644); err != nil {
		return errors.Wrap(err, "failed to write results")
	}

	logger.KV(xlog.DEBUG,
		"status", "results_saved",
		"file", filename,
		"size", len(js))
	return nil
}
