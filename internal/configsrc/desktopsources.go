package configsrc

import "runtime"

// Desktop environment detection is deliberately minimal: this module never
// shells out to gsettings/kreadconfig5/CFPreferences/the registry, and never
// links against GTK, Qt, CoreFoundation or win32. Each reader below is a
// structural stub gated on GOOS (or XDG_CURRENT_DESKTOP for the Linux desktop
// session), returning IsAvailable() == false everywhere except its native
// platform. A full native reader is out of scope; wiring one in means
// supplying a ManualConfig-producing reader func to NewManualSource.

// NewGnomeSource builds the GNOME gsettings-backed source. reader is left to
// the caller (desktop integration is platform code, not this package's
// concern) — pass nil to get a source that is available on Linux with a
// GNOME-family session but always reports "no configuration here".
func NewGnomeSource(reader func() (ManualConfig, bool)) *ManualSource {
	return NewManualSource("gnome", PriorityDefault, isGnomeSession, orEmpty(reader))
}

// NewKDESource builds the KDE kioslaverc-backed source.
func NewKDESource(reader func() (ManualConfig, bool)) *ManualSource {
	return NewManualSource("kde", PriorityDefault, isKDESession, orEmpty(reader))
}

// NewMacOSSource builds the macOS SystemConfiguration-backed source.
func NewMacOSSource(reader func() (ManualConfig, bool)) *ManualSource {
	return NewManualSource("macos", PriorityDefault, isDarwin, orEmpty(reader))
}

// NewWindowsSource builds the Windows registry/WinHTTP-backed source.
func NewWindowsSource(reader func() (ManualConfig, bool)) *ManualSource {
	return NewManualSource("windows", PriorityDefault, isWindows, orEmpty(reader))
}

// NewXDGPortalSource builds the xdg-desktop-portal Settings-backed source,
// the sandboxed-app equivalent of the GNOME/KDE readers.
func NewXDGPortalSource(reader func() (ManualConfig, bool)) *ManualSource {
	return NewManualSource("xdg-portal", PriorityFirst, isLinux, orEmpty(reader))
}

func orEmpty(reader func() (ManualConfig, bool)) func() (ManualConfig, bool) {
	if reader != nil {
		return reader
	}

	return func() (ManualConfig, bool) { return ManualConfig{}, false }
}

func isLinux() bool   { return runtime.GOOS == "linux" }
func isDarwin() bool  { return runtime.GOOS == "darwin" }
func isWindows() bool { return runtime.GOOS == "windows" }

// isGnomeSession and isKDESession additionally require desktopSessionIs to
// name the corresponding desktop, mirroring how GNOME/KDE integrations
// actually decide whether to engage on a shared Linux base.
func isGnomeSession() bool {
	return isLinux() && desktopSessionIs("gnome", "unity", "x-cinnamon")
}

func isKDESession() bool {
	return isLinux() && desktopSessionIs("kde", "plasma")
}
