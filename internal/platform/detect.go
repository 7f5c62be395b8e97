package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual host inspection.
type RealDetector struct{}

// NewDetector creates a new build host detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect returns the host's platform information. OS and architecture come
// from the Go runtime; Linux distribution details come from gopsutil.
//
// On Linux, a gopsutil failure is not fatal: distro fields stay empty and
// the basic OS/arch information is returned, so manifests that only branch
// on OS or architecture keep working.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	arch, err := normalizeArch(runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("host detection failed: %w", err)
	}
	info.Arch = arch

	if runtime.GOOS == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("host detection cancelled: %w", ctx.Err())
			}
			// Distro detection failed; OS/arch information is still usable.
			return info, nil
		}

		platform = normalizePlatform(platform)
		family = mapFamily(family)
		version = normalizePlatform(version)

		if platform != "" {
			info.Platform = platform
			info.Family = family
			info.Version = version
		}
	}

	return info, nil
}
