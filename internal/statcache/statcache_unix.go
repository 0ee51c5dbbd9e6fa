//go:build unix

package statcache

import (
	"os"
	"syscall"
	"time"
)

func init() {
	accessTimeFn = unixAccessTime
	createTimeFn = unixCreateTime
}

func unixAccessTime(info os.FileInfo, fallback time.Time) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fallback
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec) //nolint:unconvert // platform-dependent field types
}

func unixCreateTime(info os.FileInfo, fallback time.Time) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fallback
	}
	// Linux has no true creation time in struct stat; ctime (status
	// change time) is the closest available field and is what the
	// rest of the pack's stat-walking code (e.g. scanner.newFileInfo)
	// falls back to when birth time isn't exposed.
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec) //nolint:unconvert
}
