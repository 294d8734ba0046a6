package display

import (
	"fmt"
	"os"

	"github.com/stickerpress/stickerpress/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, logging.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ____  _   _      _             ____
/ ___|| |_(_) ___| | _____ _ __|  _ \ _ __ ___  ___ ___
\___ \| __| |/ __| |/ / _ \ '__| |_) | '__/ _ \/ __/ __|
 ___) | |_| | (__|   <  __/ |  |  __/| | |  __/\__ \__ \
|____/ \__|_|\___|_|\_\___|_|  |_|   |_|  \___||___/___/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
