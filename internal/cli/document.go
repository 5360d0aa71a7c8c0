package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/document"
)

// loadDocument builds the criteria tree in path, reporting failures
// through the formatter.
func loadDocument(formatter *OutputFormatter, path string) (criteria.Node, error) {
	formatter.VerboseLog("Loading %s", path)

	n, err := document.LoadCriteria(path)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
	case errors.Is(err, document.ErrUnsupportedFormat):
		return nil, formatter.Fail(ExitCommandError, ErrCodeUnsupported, err)
	default:
		return nil, formatter.Fail(ExitCommandError, ErrCodeInvalidDocument, err)
	}
}
