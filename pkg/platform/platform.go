// Package platform detects the target environment: distribution id, OS
// version, and CPU architecture. The environment is probed once at process
// start and is read-only afterward.
package platform

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/rs/zerolog/log"
)

// Architecture is the normalized CPU architecture bucket.
type Architecture string

const (
	ArchAMD64 Architecture = "amd64"
	ArchARM64 Architecture = "arm64"
)

// Family identifies the package-manager family of a distribution.
type Family string

const (
	FamilyAPT Family = "apt"
	FamilyRPM Family = "rpm"
)

// osReleasePath is the standard OS identity file. Overridable in tests.
var osReleasePath = "/etc/os-release"

// distroFamilies is the closed set of supported distributions.
var distroFamilies = map[string]Family{
	"ubuntu":    FamilyAPT,
	"debian":    FamilyAPT,
	"raspbian":  FamilyAPT,
	"centos":    FamilyRPM,
	"rhel":      FamilyRPM,
	"rocky":     FamilyRPM,
	"almalinux": FamilyRPM,
	"oracle":    FamilyRPM,
}

// Environment describes the probed target host. Immutable once probed.
type Environment struct {
	DistroID  string       `json:"distro_id"`
	OSVersion string       `json:"os_version"`
	Arch      Architecture `json:"arch"`

	// RawArch is the unnormalized machine string from uname, kept so the
	// coercion decision stays visible in facts output and logs.
	RawArch string `json:"raw_arch"`
}

// Family returns the package-manager family for the distribution.
func (e Environment) Family() Family {
	return distroFamilies[e.DistroID]
}

// MajorVersion returns the OS version truncated to its major component
// ("22.04" stays "22.04" for apt distributions; rpm repositories key on the
// major only, so "9.3" becomes "9").
func (e Environment) MajorVersion() string {
	if e.Family() == FamilyAPT {
		return e.OSVersion
	}
	if i := strings.IndexByte(e.OSVersion, '.'); i >= 0 {
		return e.OSVersion[:i]
	}
	return e.OSVersion
}

// Supported reports whether the distribution is in the supported set.
func Supported(distroID string) bool {
	_, ok := distroFamilies[distroID]
	return ok
}

// Probe reads OS identity facts from the filesystem and the machine
// architecture via uname. It fails when the host cannot be identified.
func Probe(ctx context.Context, runner execx.Runner) (Environment, error) {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return Environment{}, fmt.Errorf("unsupported OS: cannot read %s: %w", osReleasePath, err)
	}

	env, err := parseOSRelease(string(data))
	if err != nil {
		return Environment{}, err
	}

	res, err := runner.Run(ctx, "uname", "-m")
	if err != nil {
		return Environment{}, fmt.Errorf("failed to detect architecture: %w", err)
	}
	if !res.Ok() {
		return Environment{}, fmt.Errorf("failed to detect architecture: uname exited %d", res.ExitCode)
	}

	env.RawArch = strings.TrimSpace(res.Output)
	env.Arch = normalizeArchitecture(env.RawArch)

	log.Info().
		Str("distro", env.DistroID).
		Str("os_version", env.OSVersion).
		Str("raw_arch", env.RawArch).
		Str("arch", string(env.Arch)).
		Msg("Probed target environment")

	return env, nil
}

// parseOSRelease extracts ID and VERSION_ID from os-release content.
func parseOSRelease(content string) (Environment, error) {
	env := Environment{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "ID="):
			env.DistroID = strings.Trim(strings.TrimPrefix(line, "ID="), "\"")
		case strings.HasPrefix(line, "VERSION_ID="):
			env.OSVersion = strings.Trim(strings.TrimPrefix(line, "VERSION_ID="), "\"")
		}
	}

	if env.DistroID == "" || env.OSVersion == "" {
		return Environment{}, fmt.Errorf("unsupported OS: missing ID or VERSION_ID in %s", osReleasePath)
	}
	return env, nil
}

// normalizeArchitecture coerces the raw machine string into the closed
// {amd64, arm64} set. Unrecognized values fall back to amd64 with a logged
// warning.
func normalizeArchitecture(raw string) Architecture {
	switch raw {
	case "aarch64", "arm64":
		return ArchARM64
	case "x86_64", "amd64":
		return ArchAMD64
	default:
		log.Warn().
			Str("raw_arch", raw).
			Str("assumed", string(ArchAMD64)).
			Msg("Unrecognized architecture, assuming amd64")
		return ArchAMD64
	}
}
