package tui

// BuildInfo identifies the running binary in the list header.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Label is the header text: the version, plus the short commit for
// development builds. It is empty when nothing is known.
func (b BuildInfo) Label() string {
	if b.Version != "dev" {
		return b.Version
	}

	commit := b.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" || commit == "HEAD" {
		return b.Version
	}
	return b.Version + "@" + commit
}
