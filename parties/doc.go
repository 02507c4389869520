// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package parties is the single source of party display attributes.

# Registry

A Registry is built once at startup from Defaults plus any parties listed
in the config file, then shared by every handler:

	reg := parties.NewRegistry(cfg.Parties)
	style := reg.Lookup("ANC") // African National Congress, #007a33, #fff

Lookup matches the canonical name or any alias, case-insensitively.
Unknown parties fall back to #d3d3d3.

# Text Colour

TextColor returns "#000" for light backgrounds and "#fff" for dark ones,
using the perceived brightness formula (r*299 + g*587 + b*114) / 1000 > 160.
*/
package parties
