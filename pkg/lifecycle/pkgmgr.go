package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/repo"
	"github.com/rs/zerolog/log"
)

// pmInstall installs packages through the host's package manager.
func (c *Controller) pmInstall(ctx context.Context, packages ...string) (string, error) {
	switch c.env.Family() {
	case platform.FamilyAPT:
		args := append([]string{"install", "-y"}, packages...)
		return c.run(ctx, "apt-get", args...)
	case platform.FamilyRPM:
		args := append([]string{"install", "-y"}, packages...)
		return c.run(ctx, "dnf", args...)
	default:
		// Families are a closed two-way switch; reaching this is a
		// programming-contract violation.
		return "", NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}
}

// pmUpgrade upgrades exactly the named, already-installed packages. It
// never installs packages that were not already present.
func (c *Controller) pmUpgrade(ctx context.Context, packages ...string) (string, error) {
	switch c.env.Family() {
	case platform.FamilyAPT:
		args := append([]string{"install", "--only-upgrade", "-y"}, packages...)
		return c.run(ctx, "apt-get", args...)
	case platform.FamilyRPM:
		args := append([]string{"upgrade", "-y"}, packages...)
		return c.run(ctx, "dnf", args...)
	default:
		return "", NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}
}

// pmRemove removes packages and runs a dependency-cleanup pass.
func (c *Controller) pmRemove(ctx context.Context, packages ...string) (string, error) {
	var tool string
	switch c.env.Family() {
	case platform.FamilyAPT:
		tool = "apt-get"
	case platform.FamilyRPM:
		tool = "dnf"
	default:
		return "", NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}

	args := append([]string{"remove", "-y"}, packages...)
	out, err := c.run(ctx, tool, args...)
	if err != nil {
		return out, err
	}

	autoOut, err := c.run(ctx, tool, "autoremove", "-y")
	return out + autoOut, err
}

// pmRefreshMetadata refreshes the package manager's repository metadata.
func (c *Controller) pmRefreshMetadata(ctx context.Context) (string, error) {
	switch c.env.Family() {
	case platform.FamilyAPT:
		return c.run(ctx, "apt-get", "update")
	case platform.FamilyRPM:
		return c.run(ctx, "dnf", "clean", "all")
	default:
		return "", NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}
}

// pmQueryInstalled returns the installed product packages. An empty result
// is a normal condition, not an error; the package manager query tools exit
// non-zero when nothing matches.
func (c *Controller) pmQueryInstalled(ctx context.Context) ([]string, error) {
	var res string
	var err error
	switch c.env.Family() {
	case platform.FamilyAPT:
		res, err = c.run(ctx, "dpkg-query", "-W", "-f=${Package}\n", repo.PackagePrefix+"*")
	case platform.FamilyRPM:
		res, err = c.run(ctx, "rpm", "-qa", "--queryformat", "%{NAME}\n", repo.PackagePrefix+"*")
	default:
		return nil, NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}
	if err != nil {
		log.Debug().Err(err).Msg("Package query matched nothing")
		return nil, nil
	}

	var packages []string
	for _, line := range strings.Split(res, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			packages = append(packages, line)
		}
	}
	return packages, nil
}

// addRepository registers the product package repository for the requested
// version and refreshes metadata.
func (c *Controller) addRepository(ctx context.Context, version string) (string, error) {
	url, err := repo.ReleaseURL(version, c.env)
	if err != nil {
		return "", NewEnvironmentError("failed to resolve repository URL", err)
	}

	log.Info().Str("url", url).Msg("Adding product repository")

	switch c.env.Family() {
	case platform.FamilyAPT:
		out, err := c.runShell(ctx, fmt.Sprintf(
			"wget -qO /tmp/zabbix-release.deb %s && dpkg -i /tmp/zabbix-release.deb", url))
		if err != nil {
			return out, err
		}
		refreshOut, err := c.run(ctx, "apt-get", "update")
		return out + refreshOut, err
	case platform.FamilyRPM:
		return c.run(ctx, "rpm", "-Uvh", "--force", url)
	default:
		return "", NewEnvironmentError(fmt.Sprintf("unreachable package family %q", c.env.Family()), nil)
	}
}

// repositoryFile is the repository registration file the uninstall flow
// removes.
func (c *Controller) repositoryFile() string {
	if c.env.Family() == platform.FamilyAPT {
		return "/etc/apt/sources.list.d/zabbix.list"
	}
	return "/etc/yum.repos.d/zabbix.repo"
}
