package detect

import (
	"regexp"
	"strings"

	"github.com/akolanti/TraceGraph/internal/domain/docModel"
)

const complianceMentionConfidence = 0.8

type standardDef struct {
	name         string
	canonicalId  string
	standardType string
	patterns     []*regexp.Regexp
}

// surface patterns per standard, one mention per standard per chunk
var standardDefs = []standardDef{
	{
		name: "GDPR", canonicalId: "GDPR:2016/679", standardType: "GDPR",
		patterns: compilePatterns(
			`\bGDPR\b`,
			`General Data Protection Regulation`,
			`GDPR\s+Article\s+\d+`,
			`\bright to be forgotten\b`,
			`\bdata subject rights\b`,
		),
	},
	{
		name: "CCPA", canonicalId: "CCPA:CA-CIV-1798.100", standardType: "CCPA",
		patterns: compilePatterns(
			`\bCCPA\b`,
			`California Consumer Privacy Act`,
			`\bdo not sell\b.*\bpersonal information\b`,
		),
	},
	{
		name: "HIPAA", canonicalId: "HIPAA:45-CFR-164", standardType: "HIPAA",
		patterns: compilePatterns(
			`\bHIPAA\b`,
			`Health Insurance Portability`,
			`\bprotected health information\b`,
			`HIPAA\s+§\s*\d+`,
		),
	},
	{
		name: "SOC2", canonicalId: "SOC2:AICPA-TSC", standardType: "SOC2",
		patterns: compilePatterns(
			`\bSOC\s*2\b`,
			`SOC\s*2\s+Type\s+(I|II)`,
			`\bservice organization control\b`,
		),
	},
	{
		name: "ISO27001", canonicalId: "ISO27001:2013", standardType: "ISO27001",
		patterns: compilePatterns(
			`\bISO\s*27001\b`,
			`\bISO/IEC\s*27001\b`,
			`information security management`,
		),
	},
	{
		name: "PCI-DSS", canonicalId: "PCI-DSS:v4.0", standardType: "PCI-DSS",
		patterns: compilePatterns(
			`\bPCI\s*DSS\b`,
			`\bPCI-DSS\b`,
			`Payment Card Industry`,
			`\bcardholder data\b`,
		),
	},
	{
		name: "FDA 21 CFR Part 11", canonicalId: "FDA:21-CFR-11", standardType: "FDA",
		patterns: compilePatterns(
			`\bFDA\s+21\s+CFR\s+Part\s+11\b`,
			`\b21\s+CFR\s+(Part\s+)?11\b`,
			`\belectronic signatures\b.*\bFDA\b`,
		),
	},
}

// alias table for Normalize; keys are lowercased surface forms
var canonicalAliases = map[string]struct {
	id           string
	standardType string
}{
	"gdpr":                               {"GDPR:2016/679", "GDPR"},
	"gdpr:2016/679":                      {"GDPR:2016/679", "GDPR"},
	"general data protection regulation": {"GDPR:2016/679", "GDPR"},
	"ccpa":                               {"CCPA:CA-CIV-1798.100", "CCPA"},
	"ccpa:ca-civ-1798.100":               {"CCPA:CA-CIV-1798.100", "CCPA"},
	"california consumer privacy act":    {"CCPA:CA-CIV-1798.100", "CCPA"},
	"hipaa":                              {"HIPAA:45-CFR-164", "HIPAA"},
	"hipaa:45-cfr-164":                   {"HIPAA:45-CFR-164", "HIPAA"},
	"health insurance portability":       {"HIPAA:45-CFR-164", "HIPAA"},
	"soc2":                               {"SOC2:AICPA-TSC", "SOC2"},
	"soc 2":                              {"SOC2:AICPA-TSC", "SOC2"},
	"soc2:aicpa-tsc":                     {"SOC2:AICPA-TSC", "SOC2"},
	"iso27001":                           {"ISO27001:2013", "ISO27001"},
	"iso 27001":                          {"ISO27001:2013", "ISO27001"},
	"iso27001:2013":                      {"ISO27001:2013", "ISO27001"},
	"pci dss":                            {"PCI-DSS:v4.0", "PCI-DSS"},
	"pci-dss":                            {"PCI-DSS:v4.0", "PCI-DSS"},
	"pci-dss:v4.0":                       {"PCI-DSS:v4.0", "PCI-DSS"},
	"payment card industry":              {"PCI-DSS:v4.0", "PCI-DSS"},
	"fda":                                {"FDA:21-CFR-11", "FDA"},
	"fda 21 cfr part 11":                 {"FDA:21-CFR-11", "FDA"},
	"21 cfr part 11":                     {"FDA:21-CFR-11", "FDA"},
	"fda:21-cfr-11":                      {"FDA:21-CFR-11", "FDA"},
}

var fallbackStrip = regexp.MustCompile(`[^A-Z0-9 ]+`)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+e))
	}
	return compiled
}

// Normalize maps a raw compliance token to (canonical id, standard
// type). Tokens outside the alias table are uppercased and stripped of
// punctuation and used verbatim for both, flagged as a fallback match.
// Pure function: the same name always yields the same canonical id.
func Normalize(name string) (canonicalId string, standardType string, fallback bool) {
	key := strings.TrimSpace(strings.ToLower(name))
	if hit, ok := canonicalAliases[key]; ok {
		return hit.id, hit.standardType, false
	}
	cleaned := strings.TrimSpace(fallbackStrip.ReplaceAllString(strings.ToUpper(name), ""))
	if cleaned == "" {
		cleaned = "UNKNOWN"
	}
	return cleaned, cleaned, true
}

// DetectCompliance scans chunk text against the standard pattern
// table. Each standard is reported at most once per chunk.
func DetectCompliance(text string) []docModel.ComplianceMention {
	var mentions []docModel.ComplianceMention
	for _, def := range standardDefs {
		for _, p := range def.patterns {
			if p.MatchString(text) {
				mentions = append(mentions, docModel.ComplianceMention{
					Name:         def.name,
					CanonicalId:  def.canonicalId,
					StandardType: def.standardType,
					Confidence:   complianceMentionConfidence,
				})
				break
			}
		}
	}
	return mentions
}
