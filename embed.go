package mtgfactory

import (
	"embed"
	"io/fs"
)

// Embed the stylesheets served under /static/
//
//go:embed static/css/*.css
var staticFiles embed.FS

// StaticFS is the static asset tree rooted at static/
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
