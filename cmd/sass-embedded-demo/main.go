// Command sass-embedded-demo compiles a snippet of SCSS through an
// embedded compiler child and prints the resulting CSS, optionally
// starting the inspector diagnostics server alongside it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"embeddedsass"
	"embeddedsass/inspector"
)

func main() {
	libraryDir := flag.String("library-dir", "", "directory the compiler executable is vendored under")
	watch := flag.String("inspect", "", "address to serve live log events on, e.g. :8090 (disabled if empty)")
	flag.Parse()

	source := "$color: #036; a { color: $color; &:hover { color: lighten($color, 10%); } }"
	if flag.NArg() > 0 {
		source = flag.Arg(0)
	}

	var watcher *inspector.Server
	logEvents := make(chan *embeddedsass.LogEvent, 16)
	if *watch != "" {
		watcher = inspector.New()
		go watcher.Watch(logEvents)
		go func() {
			if err := watcher.ListenAndServe(*watch); err != nil {
				log.Printf("inspector: %v", err)
			}
		}()
	}

	compiler := &embeddedsass.Compiler{LibraryDir: *libraryDir}
	result, err := compiler.Compile(source, embeddedsass.Options{
		Style: embeddedsass.StyleExpanded,
		Logger: &embeddedsass.Logger{
			Warn: func(ev *embeddedsass.LogEvent) {
				if *watch != "" {
					logEvents <- ev
				}
				fmt.Fprintln(os.Stderr, ev.Formatted)
			},
		},
	})
	if *watch != "" {
		close(logEvents)
	}
	if err != nil {
		log.Fatalf("compile failed: %v", err)
	}

	fmt.Println(result.CSS)
}
