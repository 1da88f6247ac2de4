package swiftcc

import (
	"github.com/rs/zerolog/log"
	"shanhu.io/misc/jsonutil"
)

// Report is the summary of a run, saved for tooling that drives the
// build.
type Report struct {
	Success      bool
	Error        string      `json:",omitempty"`
	ConfigDigest string      `json:",omitempty"`
	Unresolved   []string    `json:",omitempty"`
	Image        *ImageSum   `json:",omitempty"`
	Link         *LinkTarget `json:",omitempty"`
	Steps        []*Step
	Outputs      []*FileStat `json:",omitempty"`
}

// NewReport creates the report of a run.
func NewReport(r *Runner, c *Config, link *LinkTarget, err error) *Report {
	rep := &Report{
		Success: err == nil,
		Link:    link,
		Steps:   r.Steps(),
	}
	if err != nil {
		rep.Error = err.Error()
	}
	if c != nil {
		digest, err := c.Digest()
		if err != nil {
			log.Warn().Err(err).Msg("config digest")
		}
		rep.ConfigDigest = digest
		for _, u := range c.Unresolved() {
			rep.Unresolved = append(rep.Unresolved, u.Name)
		}
	}
	return rep
}

// WriteReport saves the report as a JSON file.
func WriteReport(f string, rep *Report) error {
	return jsonutil.WriteFile(f, rep)
}
