// Package assets embeds the default solver datasets so the tools run even
// when no WORDS_DATA_DIR is configured.
//
// Layout mirrors an external data directory:
//
//	data/<dataset>/possible.txt  candidate secrets
//	data/<dataset>/valid.txt     extra legal guesses
package assets

import (
	"embed"
	"io/fs"
)

//go:embed data
var embedded embed.FS

// Data returns the embedded dataset tree rooted at the dataset directories.
func Data() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
