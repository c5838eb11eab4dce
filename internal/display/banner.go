package display

import (
	"fmt"
	"os"

	"github.com/sphviz/vtkmovie/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `       _   _
__   _| |_| | ___ __ ___   _____   _(_) ___
\ \ / / __| |/ / '_ `+"`"+` _ \ / _ \ \ / / |/ _ \
 \ V /| |_|   <| | | | | | (_) \ V /| |  __/
  \_/  \__|_|\_\_| |_| |_|\___/ \_/ |_|\___|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
