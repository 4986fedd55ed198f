// Package flagx contains helpers for parsing command-line flags in programs
// where several components define their own flag sets over the same os.Args.
package flagx

import "strings"

// FilterArgs returns only the arguments that belong to the flags listed in
// allowed, so a component can parse its own flag set without choking on flags
// owned by another component.
//
// Both spellings are recognized:
//
//	-f value
//	--flag=value
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		keep[name] = struct{}{}
	}

	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form: match on the part before '='.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			if _, ok := keep[strings.SplitN(arg, "=", 2)[0]]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := keep[arg]; !ok {
			continue
		}
		out = append(out, arg)

		// A following token that does not look like a flag is this flag's value.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}
