// Package translate formats every user-visible string of the virtual machine
// through a locale aware message printer.
package translate

import (
	"io"
	"log"
	"strconv"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the host reports no locale.
const DEFAULT_LOCALE = "en-US"

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("stackvm: locale: %v", err)
	}

	SetLocales(locales...)
}

// SetLocales replaces the active printer with one matching the
// first supported locale in the list.
func SetLocales(locales ...string) {
	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Plain replaces integer arguments with their decimal text, so that
// machine values print without locale digit grouping.
func Plain(args ...any) []any {
	plain := make([]any, len(args))
	for n, arg := range args {
		switch v := arg.(type) {
		case int:
			plain[n] = strconv.Itoa(v)
		case int32:
			plain[n] = strconv.FormatInt(int64(v), 10)
		case int64:
			plain[n] = strconv.FormatInt(v, 10)
		default:
			plain[n] = arg
		}
	}
	return plain
}

// Fprintf translates an en-US Fprintf() format onto a writer.
func Fprintf(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	return printer.Fprintf(w, key, args...)
}
