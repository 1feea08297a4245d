package models

import "strings"

// GateBranchCodes lists the official GATE paper codes.
var GateBranchCodes = []string{
	"AE", "AG", "AR", "BM", "BT", "CE", "CH", "CS", "CY", "DA",
	"EC", "EE", "ES", "EY", "GE", "GG", "IN", "MA", "ME", "MN",
	"MT", "NM", "PE", "PH", "PI", "ST", "TF", "XE", "XL", "XH",
}

// IsKnownBranch reports whether code is an official GATE paper code.
func IsKnownBranch(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range GateBranchCodes {
		if c == code {
			return true
		}
	}
	return false
}
