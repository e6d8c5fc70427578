package ytdlp

import (
	"regexp"
	"slices"
)

var shellLike = regexp.MustCompile(`(\$\{)|(\&\&)`)

// argsSanitizer drops empty arguments and anything resembling shell
// interpolation or command chaining.
func argsSanitizer(params []string) []string {
	params = slices.DeleteFunc(slices.Clone(params), func(e string) bool {
		return e == "" || shellLike.MatchString(e)
	})
	return params
}

var outputFlags = []string{"-o", "--output", "-P", "--paths"}

// withoutOutputFlags removes output location flags and their values, the
// destination of a fetch is always chosen by the download plan.
func withoutOutputFlags(params []string) []string {
	out := make([]string, 0, len(params))
	for i := 0; i < len(params); i++ {
		if slices.Contains(outputFlags, params[i]) {
			i++
			continue
		}
		out = append(out, params[i])
	}
	return out
}
