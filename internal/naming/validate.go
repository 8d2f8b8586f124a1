package naming

import (
	"strings"
	"unicode"
)

const invalidChars = `/\<>:"|?*`

// reservedNames are device names Windows refuses as file stems.
var reservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// InvalidNameReason returns why name cannot be used as a base file name,
// or "" when it is acceptable. Names are checked against the strictest
// common rules so a batch renamed on one system stays portable.
func InvalidNameReason(name string) string {
	switch name {
	case "":
		return "empty name"
	case ".", "..":
		return "reserved name " + name
	}
	if i := strings.IndexAny(name, invalidChars); i >= 0 {
		return "contains " + string(name[i])
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "contains a control character"
		}
	}
	if strings.TrimRight(name, " .") != name {
		return "ends with a space or dot"
	}
	stem := name
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	if reservedNames[strings.ToLower(stem)] {
		return "reserved device name " + stem
	}
	return ""
}
