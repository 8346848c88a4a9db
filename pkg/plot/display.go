package plot

import (
	"fmt"
	"os"

	"github.com/cli/browser"
)

// openFile opens a local file in the user's viewer.
var openFile = browser.OpenFile

// Display writes fig as a viewer page to a temporary file and opens it.
// It returns the path of the page.
func Display(fig *Figure, opts RenderOptions) (string, error) {
	f, err := os.CreateTemp("", "survmon-*.html")
	if err != nil {
		return "", fmt.Errorf("creating viewer page: %w", err)
	}

	if err := Render(fig, FormatHTML, f, opts); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing viewer page: %w", err)
	}

	if err := openFile(f.Name()); err != nil {
		return f.Name(), fmt.Errorf("opening viewer: %w", err)
	}
	return f.Name(), nil
}
