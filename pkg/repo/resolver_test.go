package repo

import (
	"testing"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
)

// TestReleaseURLDeterminism tests that identical inputs always resolve to
// the same URL
func TestReleaseURLDeterminism(t *testing.T) {
	env := platform.Environment{DistroID: "ubuntu", OSVersion: "22.04", Arch: platform.ArchAMD64}

	first, err := ReleaseURL("6.4", env)
	if err != nil {
		t.Fatalf("failed to resolve URL: %v", err)
	}
	second, err := ReleaseURL("6.4", env)
	if err != nil {
		t.Fatalf("failed to resolve URL: %v", err)
	}
	if first != second {
		t.Errorf("expected identical URLs, got %q and %q", first, second)
	}
}

// TestReleaseURLAptDistributions tests deb bootstrap URL construction
func TestReleaseURLAptDistributions(t *testing.T) {
	tests := []struct {
		name    string
		distro  string
		version string
		product string
		want    string
	}{
		{
			name:    "ubuntu jammy",
			distro:  "ubuntu",
			version: "22.04",
			product: "6.4",
			want:    "https://repo.zabbix.com/zabbix/6.4/ubuntu/pool/main/z/zabbix-release/zabbix-release_6.4-4+ubuntu22.04_all.deb",
		},
		{
			name:    "debian bookworm",
			distro:  "debian",
			version: "12",
			product: "6.0",
			want:    "https://repo.zabbix.com/zabbix/6.0/debian/pool/main/z/zabbix-release/zabbix-release_6.0-4+debian12_all.deb",
		},
		{
			name:    "raspbian",
			distro:  "raspbian",
			version: "11",
			product: "6.0",
			want:    "https://repo.zabbix.com/zabbix/6.0/raspbian/pool/main/z/zabbix-release/zabbix-release_6.0-4+raspbian11_all.deb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := platform.Environment{DistroID: tt.distro, OSVersion: tt.version, Arch: platform.ArchAMD64}
			got, err := ReleaseURL(tt.product, env)
			if err != nil {
				t.Fatalf("failed to resolve URL: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestReleaseURLRpmDistributions tests rpm bootstrap URL construction,
// including major-version truncation and architecture mapping
func TestReleaseURLRpmDistributions(t *testing.T) {
	tests := []struct {
		name    string
		distro  string
		version string
		arch    platform.Architecture
		product string
		want    string
	}{
		{
			name:    "rocky 9 amd64",
			distro:  "rocky",
			version: "9.3",
			arch:    platform.ArchAMD64,
			product: "6.4",
			want:    "https://repo.zabbix.com/zabbix/6.4/rhel/9/x86_64/zabbix-release-6.4-4.el9.noarch.rpm",
		},
		{
			name:    "almalinux 8 arm64",
			distro:  "almalinux",
			version: "8.9",
			arch:    platform.ArchARM64,
			product: "6.0",
			want:    "https://repo.zabbix.com/zabbix/6.0/rhel/8/aarch64/zabbix-release-6.0-4.el8.noarch.rpm",
		},
		{
			name:    "centos 7",
			distro:  "centos",
			version: "7",
			arch:    platform.ArchAMD64,
			product: "5.0",
			want:    "https://repo.zabbix.com/zabbix/5.0/rhel/7/x86_64/zabbix-release-5.0-4.el7.noarch.rpm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := platform.Environment{DistroID: tt.distro, OSVersion: tt.version, Arch: tt.arch}
			got, err := ReleaseURL(tt.product, env)
			if err != nil {
				t.Fatalf("failed to resolve URL: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestReleaseURLUnsupportedDistribution tests that unknown distributions
// are a fatal error with no fallback URL
func TestReleaseURLUnsupportedDistribution(t *testing.T) {
	env := platform.Environment{DistroID: "gentoo", OSVersion: "2.14", Arch: platform.ArchAMD64}
	url, err := ReleaseURL("6.4", env)
	if err == nil {
		t.Fatalf("expected error for unsupported distribution, got URL %q", url)
	}
	if url != "" {
		t.Errorf("expected empty URL on error, got %q", url)
	}
}

// TestReleaseURLUnsupportedVersion tests the version allow-list
func TestReleaseURLUnsupportedVersion(t *testing.T) {
	env := platform.Environment{DistroID: "ubuntu", OSVersion: "22.04", Arch: platform.ArchAMD64}
	if _, err := ReleaseURL("7.2", env); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

// TestVersionSupported tests the allow-list membership check
func TestVersionSupported(t *testing.T) {
	for _, v := range SupportedVersions {
		if !VersionSupported(v) {
			t.Errorf("expected version %q to be supported", v)
		}
	}
	for _, v := range []string{"4.0", "7.0", "6", ""} {
		if VersionSupported(v) {
			t.Errorf("expected version %q to be unsupported", v)
		}
	}
}
