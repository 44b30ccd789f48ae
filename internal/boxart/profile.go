package boxart

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultDimensions applies when neither WIDTH HEIGHT nor a profile is given.
var DefaultDimensions = Dimensions{Width: 250, Height: 288}

// Profiles maps a lowercase profile name to its target size.
type Profiles map[string]Dimensions

// DefaultProfiles returns the built-in disc platform cover sizes.
func DefaultProfiles() Profiles {
	return Profiles{
		"psx": {Width: 250, Height: 250},
		"ps2": {Width: 250, Height: 350},
		"ps3": {Width: 250, Height: 288},
	}
}

// With returns a copy of p extended by extra. Entries in extra win.
func (p Profiles) With(extra map[string]Dimensions) Profiles {
	out := make(Profiles, len(p)+len(extra))
	for name, dims := range p {
		out[name] = dims
	}
	for name, dims := range extra {
		out[strings.ToLower(strings.TrimSpace(name))] = dims
	}
	return out
}

// Names returns the profile names sorted.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a profile case-insensitively.
func (p Profiles) Lookup(name string) (Dimensions, bool) {
	dims, ok := p[strings.ToLower(strings.TrimSpace(name))]
	return dims, ok
}

// Resolution is the outcome of splitting positional arguments.
type Resolution struct {
	Dimensions Dimensions
	// Profile is the matched profile name, empty for explicit or default sizes.
	Profile string
	// Inputs are the remaining positional arguments in caller order.
	Inputs []string
}

// ProfileResolver turns the leading positional arguments into a target size.
type ProfileResolver struct {
	Profiles Profiles
	Default  Dimensions
	// Exists reports whether a token names something on disk. It lets a
	// directory called "covers" be an input rather than an unknown profile.
	Exists func(string) bool
}

// NewProfileResolver builds a resolver backed by os.Stat.
func NewProfileResolver(profiles Profiles, fallback Dimensions) ProfileResolver {
	return ProfileResolver{
		Profiles: profiles,
		Default:  fallback,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// Resolve reads WIDTH HEIGHT, else a profile token, else the default.
func (r ProfileResolver) Resolve(args []string) (Resolution, error) {
	fallback := r.Default
	if !fallback.Valid() {
		fallback = DefaultDimensions
	}
	if len(args) == 0 {
		return Resolution{Dimensions: fallback}, nil
	}

	first := args[0]
	if isInteger(first) && !r.exists(first) {
		if len(args) < 2 || !isInteger(args[1]) {
			return Resolution{}, &ConfigError{Field: "size", Value: first, Msg: "WIDTH must be followed by HEIGHT"}
		}
		width, werr := strconv.Atoi(first)
		height, herr := strconv.Atoi(args[1])
		dims := Dimensions{Width: width, Height: height}
		if werr != nil || herr != nil || !dims.Valid() {
			return Resolution{}, &ConfigError{
				Field: "size",
				Value: first + " " + args[1],
				Msg:   fmt.Sprintf("width and height must be integers from 1 to %d", MaxDimension),
			}
		}
		return Resolution{Dimensions: dims, Inputs: args[2:]}, nil
	}

	if dims, ok := r.Profiles.Lookup(first); ok {
		return Resolution{Dimensions: dims, Profile: strings.ToLower(first), Inputs: args[1:]}, nil
	}

	if looksLikeProfile(first) && !r.exists(first) {
		return Resolution{}, &ConfigError{
			Field: "profile",
			Value: first,
			Msg:   "unknown profile (valid: " + strings.Join(r.Profiles.Names(), ", ") + ")",
		}
	}

	return Resolution{Dimensions: fallback, Inputs: args}, nil
}

func (r ProfileResolver) exists(path string) bool {
	if r.Exists == nil {
		return false
	}
	return r.Exists(path)
}

func isInteger(token string) bool {
	token = strings.TrimPrefix(token, "-")
	if token == "" {
		return false
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// looksLikeProfile reports whether token is a bare word: no separator and
// no extension.
func looksLikeProfile(token string) bool {
	if token == "" || filepath.Ext(token) != "" {
		return false
	}
	return !strings.ContainsAny(token, `/\`)
}
