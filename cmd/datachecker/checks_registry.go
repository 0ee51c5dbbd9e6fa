package main

import "github.com/arjank/datachecker/internal/types"

// checkAlias is one per-check CLI flag (spec §4.5/§4.10): selecting it
// runs exactly that check, with the cache disabled for the run. Order
// mirrors the fixed dispatch order.
type checkAlias struct {
	flag string
	name string
}

// checkAliases lists every per-check alias flag, in dispatch order.
var checkAliases = []checkAlias{
	{"duplicates", "duplicates"},
	{"links", "links"},
	{"integrity", "integrity"},
	{"temporary", "temporary"},
	{"confidential", "confidential"},
	{"compressed", "compressed"},
	{"duplicate-chars", "duplicate_chars"},
	{"empty-files", "empty_files"},
	{"large-files", "large_files"},
	{"last-access", "last_access"},
	{"legacy", "legacy"},
	{"magic-numbers", "magic_numbers"},
	{"no-extension", "no_extension"},
	{"json-parse", "json_parse"},
	{"wrong-dates", "wrong_dates"},
	{"empty-dirs", "empty_dirs"},
	{"many-items-dirs", "many_items_dirs"},
	{"one-item-dirs", "one_item_dirs"},
	{"name-size", "name_size"},
	{"path-size", "path_size"},
	{"unportable-chars", "unportable_chars"},
}

// checkFlagValues holds the bound cobra.Flags().Bool() destinations,
// keyed by check name.
type checkFlagValues map[string]*bool

// selected returns the check name the caller asked to run alone via a
// per-check alias flag, or "" if none was set. Cobra flag parsing
// guarantees at most the flags the user actually passed are true; if
// more than one alias is set, the first in dispatch order wins.
func (v checkFlagValues) selected() string {
	for _, a := range checkAliases {
		if p, ok := v[a.name]; ok && p != nil && *p {
			return a.name
		}
	}
	return ""
}

// bindCheckFlags registers one bool flag per check alias on cmd and
// returns the map of bound destinations.
func bindCheckFlags(cmd *cobraFlagSet) checkFlagValues {
	values := make(checkFlagValues, len(checkAliases))
	for _, a := range checkAliases {
		b := new(bool)
		cmd.BoolVar(b, a.flag, false, "run only the "+a.name+" check (disables the cache)")
		values[a.name] = b
	}
	return values
}

// cobraFlagSet is the minimal surface bindCheckFlags needs, satisfied by
// *pflag.FlagSet (via cobra.Command.Flags()).
type cobraFlagSet interface {
	BoolVar(p *bool, name string, value bool, usage string)
}

// applySingleCheck disables the cache when a single-check alias was
// selected (spec §6: "per-check flags disable the cache").
func applySingleCheck(cfg *types.ScanConfig, selected string) {
	if selected != "" {
		cfg.EnableCache = false
	}
}
