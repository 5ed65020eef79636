package pacfetch

import "strings"

// CanonicalWPADURI is the fetch URI the core resolution engine requires
// for a "wpad://" candidate (§4.3).
const CanonicalWPADURI = "http://wpad/wpad.dat"

// DevolutionCandidates returns the DNS-devolution WPAD discovery chain for
// localDomain: http://wpad/wpad.dat first, then http://wpad.<domain>/wpad.dat
// walking up the label tree until fewer than two labels remain (a bare TLD
// is never queried). This is a permitted extension beyond the core
// contract (§4.3, §9 "jeff-dev/src/plugins/gnome.c" lineage /
// wpad_dnsdevolution.c in original_source), used only when the canonical
// fetch fails and localDomain is non-empty.
func DevolutionCandidates(localDomain string) []string {
	out := []string{CanonicalWPADURI}

	domain := strings.Trim(localDomain, ".")
	if domain == "" {
		return out
	}

	for {
		if strings.Count(domain, ".") == 0 {
			break
		}

		out = append(out, "http://wpad."+domain+"/wpad.dat")

		idx := strings.IndexByte(domain, '.')
		if idx < 0 {
			break
		}

		domain = domain[idx+1:]
	}

	return out
}
