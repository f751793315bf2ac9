package cli

import (
	"fmt"
	"io"
	"runtime"

	"logship/internal/global"
)

func VersionMode(args []string, stdout io.Writer) {
	if len(args) > 0 && (args[0] == "--verbosity" || args[0] == "-v") {
		fmt.Fprintf(stdout, "%s %s\n", global.ProgBaseName, global.ProgVersion)
		fmt.Fprintf(stdout, "Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		return
	}
	fmt.Fprintln(stdout, global.ProgVersion)
}
