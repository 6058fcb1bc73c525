package main

import (
	"os"
	"strings"

	"taskdeck/internal/cli"
)

// lookupCommand maps a pasted entity id to the command that shows it.
func lookupCommand(s string) []string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "task-") && len(s) > len("task-"):
		return []string{"tasks", "show"}
	case strings.HasPrefix(s, "proj-") && len(s) > len("proj-"):
		return []string{"projects", "show"}
	default:
		return nil
	}
}

func rewriteDirectLookupArgs(argv []string) []string {
	// Convenience: `taskdeck <task-id>` works like `taskdeck tasks show <task-id>`
	// and `taskdeck <proj-id>` like `taskdeck projects show <proj-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
	// before parsing. Persistent flags may come first, so look for the first
	// positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(i int, sub []string) []string {
		out := make([]string, 0, len(argv)+len(sub))
		out = append(out, argv[:i]...)
		out = append(out, sub...)
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if sub := lookupCommand(argv[i+1]); sub != nil {
					return insert(i+1, sub)
				}
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if sub := lookupCommand(a); sub != nil {
			return insert(i, sub)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
