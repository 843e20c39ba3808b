package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/partscrape/internal/ui"
)

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\n%s\n", ui.Paint(strings.ToUpper(cmd.Name()), ui.ColorBold, ui.ColorCyan))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", cmd.Long)
	}

	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", ui.Paint(cmd.UseLine(), ui.ColorCyan))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s %s %s\n",
			ui.Paint(cmd.CommandPath(), ui.ColorCyan),
			ui.Paint("<command>", ui.ColorYellow),
			ui.Paint("[flags]", ui.ColorDim))
	}

	if cmd.HasExample() {
		section(w, "Examples")
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintf(w, "  %s\n", ui.Paint(trimmed, ui.ColorDim))
			default:
				fmt.Fprintf(w, "  %s\n", ui.Paint("$ "+trimmed, ui.ColorGreen))
			}
		}
	}

	if cmd.HasAvailableSubCommands() {
		section(w, "Commands")
		width := 0
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() && len(c.Name()) > width {
				width = len(c.Name())
			}
		}
		for _, c := range cmd.Commands() {
			if !c.IsAvailableCommand() || c.Name() == "help" {
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n",
				ui.Paint(fmt.Sprintf("%-*s", width, c.Name()), ui.ColorCyan),
				ui.Paint(c.Short, ui.ColorDim))
		}
	}

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		printFlags(w, cmd.InheritedFlags().FlagUsages())
	}
	fmt.Fprintln(w)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", ui.Paint(title, ui.ColorBold, ui.ColorWhite))
}

// printFlags colors the flag names of pflag's usage block
func printFlags(w io.Writer, usages string) {
	for _, line := range strings.Split(usages, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		name, desc, found := strings.Cut(trimmed, "   ")
		if !strings.HasPrefix(trimmed, "-") || !found {
			fmt.Fprintf(w, "  %s\n", ui.Paint(trimmed, ui.ColorDim))
			continue
		}
		fmt.Fprintf(w, "  %s %s\n",
			ui.Paint(fmt.Sprintf("%-36s", strings.TrimSpace(name)), ui.ColorGreen),
			ui.Paint(strings.TrimSpace(desc), ui.ColorDim))
	}
}
