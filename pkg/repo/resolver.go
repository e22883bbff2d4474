// Package repo resolves the Zabbix package source for a target environment
// and computes the deterministic package set for a deployment. Both are pure
// functions of their inputs.
package repo

import (
	"fmt"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
)

// SupportedVersions is the allow-listed set of deployable product versions.
var SupportedVersions = []string{"5.0", "6.0", "6.4"}

// VersionSupported reports whether the version is in the allow-list.
func VersionSupported(version string) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}

// ReleaseURL resolves the zabbix-release bootstrap package URL for the given
// product version and target environment. Unknown distributions are a fatal
// error; there is no fallback.
func ReleaseURL(version string, env platform.Environment) (string, error) {
	if !VersionSupported(version) {
		return "", fmt.Errorf("unsupported product version %q", version)
	}

	switch env.DistroID {
	case "ubuntu", "debian", "raspbian":
		return fmt.Sprintf(
			"https://repo.zabbix.com/zabbix/%s/%s/pool/main/z/zabbix-release/zabbix-release_%s-4+%s%s_all.deb",
			version, env.DistroID, version, env.DistroID, env.MajorVersion(),
		), nil
	case "centos", "rhel", "rocky", "almalinux", "oracle":
		return fmt.Sprintf(
			"https://repo.zabbix.com/zabbix/%s/rhel/%s/%s/zabbix-release-%s-4.el%s.noarch.rpm",
			version, env.MajorVersion(), rpmArch(env.Arch), version, env.MajorVersion(),
		), nil
	default:
		return "", fmt.Errorf("unsupported distribution %q", env.DistroID)
	}
}

// rpmArch maps the normalized architecture to the rpm repository directory.
func rpmArch(arch platform.Architecture) string {
	if arch == platform.ArchARM64 {
		return "aarch64"
	}
	return "x86_64"
}
