// Package pkg holds project metadata and the per-user directories derived
// from it.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "stache"
	// Description summarizes the command for help output.
	Description = "Render logic-less Mustache templates"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// EnvPrefix returns the prefix of environment variables read by the
// command, for example "STACHE_".
func EnvPrefix() string {
	return strings.ToUpper(Prefix()) + "_"
}
