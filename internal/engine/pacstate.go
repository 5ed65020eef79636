package engine

// pacState holds the single currently-active PAC/WPAD installation (§3,
// §4.6 state transitions). Exactly one of the following is true at any
// time: all fields are empty ("Cleared"/"Ready"), wpadActive is set and
// pacSourceURI is pacfetch.CanonicalWPADURI ("WPAD-cached"), or wpadActive
// is false and pacSourceURI names a pac+ source ("PAC-cached").
//
// Invariant: len(pacBytes) > 0 implies pacSourceURI != "" or wpadActive.
// Invariant: after a network-available transition both fields are cleared
// and wpadActive is reset to false.
type pacState struct {
	wpadActive   bool
	pacSourceURI string
	pacBytes     []byte
}

func (s *pacState) clear() {
	s.wpadActive = false
	s.pacSourceURI = ""
	s.pacBytes = nil
}

func (s *pacState) hasCachedPAC() bool {
	return len(s.pacBytes) > 0
}
