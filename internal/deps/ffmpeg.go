package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// FFprobeSidecar picks the ffprobe binary to use.
//
// Static ffmpeg builds ship ffprobe in the same directory. When ffprobe is
// configured by bare name and cannot be found on PATH, the copy next to the
// resolved ffmpeg binary is used instead.
func FFprobeSidecar(ffmpegCommand, ffprobeCommand string) string {
	ffprobe := strings.TrimSpace(ffprobeCommand)
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if strings.ContainsRune(ffprobe, filepath.Separator) {
		return ffprobe
	}
	if _, err := exec.LookPath(ffprobe); err == nil {
		return ffprobe
	}
	ffmpeg := strings.TrimSpace(ffmpegCommand)
	if ffmpeg == "" {
		return ffprobe
	}
	resolved, err := exec.LookPath(ffmpeg)
	if err != nil {
		return ffprobe
	}
	candidate := filepath.Join(filepath.Dir(resolved), executableName("ffprobe"))
	if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
		return candidate
	}
	return ffprobe
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
