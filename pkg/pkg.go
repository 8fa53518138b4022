// Package pkg holds the identity of the acs project and the locations of
// its per-user files.
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of acs embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the embedded version with surrounding whitespace removed.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and names the
	// configuration and cache directories.
	Name = "acs"
	// Description is a short summary used in help output.
	Description = "Minimal expression-oriented scripting toolchain"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// String returns the author formatted as "Name <Email>".
func (a AuthorInfo) String() string {
	switch {
	case a.Email == "":
		return a.Name
	case a.Name == "":
		return "<" + a.Email + ">"
	default:
		return a.Name + " <" + a.Email + ">"
	}
}

// About returns the description followed by the author list, for help output.
func About() string {
	names := make([]string, len(Author))
	for i, a := range Author {
		names[i] = a.String()
	}

	return Description + "\n\nAuthor: " + strings.Join(names, ", ")
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
