package models

import "slices"

// Roles lists the professions offered by the waitlist form
var Roles = []string{
	"Gamer/Player",
	"Developer",
	"Investor",
	"Content Creator",
	"Business Executive",
	"Entrepreneur",
	"Student",
	"Other",
}

// Interests lists the interest options displayed by the waitlist form
var Interests = []string{
	"Alpha/Beta Testing",
	"Voice Technology",
	"Blockchain/NFTs",
	"Community Events",
	"Investment Opportunities",
	"Partnership",
	"Technical Documentation",
	"Content Creation",
}

// ReferralSources lists the "how did you hear about us" options
var ReferralSources = []string{
	"Social Media",
	"Friend/Colleague",
	"Gaming Community",
	"Tech Blog/News",
	"Search Engine",
	"Conference/Event",
	"Cryptocurrency Community",
	"Other",
}

func IsRole(role string) bool { return slices.Contains(Roles, role) }

func IsReferralSource(source string) bool { return slices.Contains(ReferralSources, source) }
