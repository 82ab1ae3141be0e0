package infrastructure

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yourusername/mediaq/internal/domain"
)

// YTDLPFetcher implements domain.Fetcher by shelling out to the yt-dlp
// binary. Options are translated to command-line flags; unknown keys are
// ignored. Any non-zero exit wraps domain.ErrDownloadFailed, regardless of
// cause, which is exactly the contract the worker's retry policy relies on.
type YTDLPFetcher struct {
	config *domain.FetchConfig
}

// NewYTDLPFetcher creates a yt-dlp fetcher.
func NewYTDLPFetcher(config *domain.FetchConfig) *YTDLPFetcher {
	return &YTDLPFetcher{config: config}
}

var _ domain.Fetcher = (*YTDLPFetcher)(nil)

// Fetch downloads the media at url into the configured output directory.
func (f *YTDLPFetcher) Fetch(url string, opts domain.Options) error {
	// Ensure output directory exists
	if err := os.MkdirAll(f.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := f.buildArgs(url, opts)

	// Open log file for direct redirect (combines stdout and stderr like 2>&1)
	downloadLog, err := f.openLogFile()
	if err != nil {
		return fmt.Errorf("failed to open download log: %w", err)
	}
	defer downloadLog.Close()

	// Write command header to download log (with proper shell escaping for display)
	cmdLine := ShellEscapeCommand(f.config.Binary, args...)
	f.writeLogHeader(downloadLog, url, cmdLine)

	// Execute yt-dlp with direct file redirect
	// Redirect both stdout and stderr to the same file (like cmd > file 2>&1)
	cmd := exec.Command(f.config.Binary, args...)
	cmd.Stdout = downloadLog
	cmd.Stderr = downloadLog

	if err := cmd.Run(); err != nil {
		f.writeLogFooter(downloadLog, false, fmt.Sprintf("%s failed: %v", f.config.Binary, err))
		return fmt.Errorf("%w: %s: %v", domain.ErrDownloadFailed, f.config.Binary, err)
	}

	f.writeLogFooter(downloadLog, true, "Downloaded: "+url)
	return nil
}

// buildArgs translates fetch options into yt-dlp flags. Note: exec.Command
// passes args directly to the process, no shell quoting needed.
func (f *YTDLPFetcher) buildArgs(url string, opts domain.Options) []string {
	args := []string{
		"--no-progress",
		"--restrict-filenames",
		"-P", f.config.OutputDir,
	}

	if tmpl := opts.String(domain.OptOutputTemplate); tmpl != "" {
		args = append(args, "-o", tmpl)
	}

	if format := opts.String(domain.OptFormat); format != "" {
		args = append(args, "-f", format)
	}

	if opts.Bool(domain.OptNoPlaylist) {
		args = append(args, "--no-playlist")
	}

	if timeout, ok := opts.Int(domain.OptSocketTimeout); ok && timeout > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(timeout))
	}

	if opts.Bool(domain.OptNoCheckCertificate) {
		args = append(args, "--no-check-certificate")
	}

	if cookieFile := opts.String(domain.OptCookieFile); cookieFile != "" && fileExists(cookieFile) {
		args = append(args, "--cookies", cookieFile)
	}

	return append(args, url)
}

// openLogFile opens the download log file for today
// All output (stdout and stderr) goes to this single file
func (f *YTDLPFetcher) openLogFile() (*os.File, error) {
	// Ensure logs directory exists
	if err := os.MkdirAll(f.config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	dateStr := time.Now().Format("20060102")
	downloadPath := filepath.Join(f.config.LogsDir, "download-"+dateStr+".log")
	return os.OpenFile(downloadPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the download start marker
func (f *YTDLPFetcher) writeLogHeader(file *os.File, url, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	file.WriteString(fmt.Sprintf("\n=== [%s] Download: %s ===\n", timestamp, url))
	file.WriteString(fmt.Sprintf("$ %s\n", cmdLine))
}

// writeLogFooter writes the download end marker
func (f *YTDLPFetcher) writeLogFooter(file *os.File, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	file.WriteString(fmt.Sprintf("[%s] %s: %s\n", timestamp, status, message))
	file.WriteString("=== END ===\n\n")
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
