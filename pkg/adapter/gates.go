package adapter

import "github.com/fulmenhq/tklport/pkg/ability"

// Gate makes the generation of one adapter file conditional on the platform
// declaring at least one of the listed abilities.
type Gate struct {
	File  string   `json:"file" yaml:"file"`
	AnyOf []string `json:"any_of" yaml:"any_of"`
}

// DefaultGates are the capability gates of the security adapters.
var DefaultGates = []Gate{
	{File: "tkl_asymmetrical.c", AnyOf: []string{ability.KeyRSA, ability.KeyECC}},
	{File: "tkl_symmetry.c", AnyOf: []string{ability.KeyAES}},
	{File: "tkl_hash.c", AnyOf: []string{ability.KeySHA256, ability.KeySHA1, ability.KeyMD5}},
}

// Allowed reports whether file may be generated for a platform with the given
// abilities. Files without a gate are always allowed.
func Allowed(gates []Gate, file string, abilities ability.Map) bool {
	for _, g := range gates {
		if g.File == file {
			return abilities.AnyOf(g.AnyOf...)
		}
	}
	return true
}
