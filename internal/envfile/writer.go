package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/pkg/models"
)

// DefaultPath is the output file used when none is given
const DefaultPath = ".env"

// Write creates (or truncates) path and writes one KEY=VALUE line per secret.
// A failure aborts immediately and leaves any partially written file in place.
func Write(values []models.SecretValue, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errs.IO(err, fmt.Sprintf("failed to create output file %s", path))
	}

	if err := Encode(file, values); err != nil {
		file.Close()
		return errs.IO(err, fmt.Sprintf("failed to write to output file %s", path))
	}

	if err := file.Close(); err != nil {
		return errs.IO(err, fmt.Sprintf("failed to close output file %s", path))
	}

	return nil
}

// Encode writes values to w in KEY=VALUE form, in order.
// The key is the last path segment of the secret ID, or the whole ID when it
// has no "/". Keys and values are written verbatim.
func Encode(w io.Writer, values []models.SecretValue) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", v.Name(), v.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}
