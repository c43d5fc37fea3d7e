package embeddedsass

import (
	"encoding/json"
	"os/exec"

	"github.com/cli/safeexec"
)

// VersionInfo describes the protocol/compiler/implementation version triple
// the embedded compiler reports via its `--version` flag (spec.md §5
// "Supplemented features"), grounded on the godartsass reference file's
// DartSassVersion struct.
type VersionInfo struct {
	ProtocolVersion       string `json:"protocolVersion"`
	CompilerVersion       string `json:"compilerVersion"`
	ImplementationVersion string `json:"implementationVersion"`
	ImplementationName    string `json:"implementationName"`
}

// CompilerVersion execs the compiler at execPath with --version and parses
// its JSON reply. It does not spawn a protocol session.
func CompilerVersion(execPath string) (VersionInfo, error) {
	var v VersionInfo
	bin, err := safeexec.LookPath(execPath)
	if err != nil {
		return v, err
	}
	out, err := exec.Command(bin, "--version").Output()
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(out, &v); err != nil {
		return v, err
	}
	return v, nil
}
