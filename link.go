package swiftcc

// LinkMode is the kind of the final artifact.
type LinkMode int

// Link modes.
const (
	LinkStatic LinkMode = iota + 1
	LinkShared
	LinkExe
)

func (m LinkMode) op() (Op, bool) {
	switch m {
	case LinkStatic:
		return OpLinkStatic, true
	case LinkShared:
		return OpLinkShared, true
	case LinkExe:
		return OpLinkExe, true
	}
	return 0, false
}

func (m LinkMode) String() string {
	switch m {
	case LinkStatic:
		return "lib"
	case LinkShared:
		return "shared"
	case LinkExe:
		return "exe"
	}
	return "none"
}

// LinkTarget is the final artifact to link.
type LinkTarget struct {
	Mode LinkMode
	Path string
}

// ChooseLink picks the link target from the requested outputs. At most
// one is linked: a shared object first, then a static library, then an
// executable. It returns nil when none is requested.
func ChooseLink(shared, lib, exe string) *LinkTarget {
	switch {
	case shared != "":
		return &LinkTarget{Mode: LinkShared, Path: shared}
	case lib != "":
		return &LinkTarget{Mode: LinkStatic, Path: lib}
	case exe != "":
		return &LinkTarget{Mode: LinkExe, Path: exe}
	}
	return nil
}
