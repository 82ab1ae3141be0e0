package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediaq/internal/domain"
)

func testFetchConfig(t *testing.T) *domain.FetchConfig {
	t.Helper()
	dir := t.TempDir()
	return &domain.FetchConfig{
		Binary:    "yt-dlp",
		OutputDir: filepath.Join(dir, "downloads"),
		LogsDir:   filepath.Join(dir, "logs"),
	}
}

func TestBuildArgs_AllOptions(t *testing.T) {
	cfg := testFetchConfig(t)
	fetcher := NewYTDLPFetcher(cfg)

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("# Netscape HTTP Cookie File\n"), 0644))

	opts := domain.Options{
		{Key: domain.OptOutputTemplate, Value: "%(title)s.%(ext)s"},
		{Key: domain.OptFormat, Value: "best"},
		{Key: domain.OptNoPlaylist, Value: true},
		{Key: domain.OptSocketTimeout, Value: 5},
		{Key: domain.OptNoCheckCertificate, Value: true},
		{Key: domain.OptCookieFile, Value: cookieFile},
	}

	args := fetcher.buildArgs("https://example.com/v", opts)

	assert.Equal(t, []string{
		"--no-progress",
		"--restrict-filenames",
		"-P", cfg.OutputDir,
		"-o", "%(title)s.%(ext)s",
		"-f", "best",
		"--no-playlist",
		"--socket-timeout", "5",
		"--no-check-certificate",
		"--cookies", cookieFile,
		"https://example.com/v",
	}, args)
}

func TestBuildArgs_EmptyOptions(t *testing.T) {
	cfg := testFetchConfig(t)
	fetcher := NewYTDLPFetcher(cfg)

	args := fetcher.buildArgs("https://example.com/v", nil)

	assert.Equal(t, []string{
		"--no-progress",
		"--restrict-filenames",
		"-P", cfg.OutputDir,
		"https://example.com/v",
	}, args)
}

func TestBuildArgs_MissingCookieFileSkipped(t *testing.T) {
	cfg := testFetchConfig(t)
	fetcher := NewYTDLPFetcher(cfg)

	opts := domain.Options{
		{Key: domain.OptCookieFile, Value: "/nonexistent/cookies.txt"},
	}

	args := fetcher.buildArgs("https://example.com/v", opts)
	assert.NotContains(t, args, "--cookies")
}

func TestFetch_MissingBinaryIsDownloadFailure(t *testing.T) {
	cfg := testFetchConfig(t)
	cfg.Binary = "/nonexistent/yt-dlp-test-binary"
	fetcher := NewYTDLPFetcher(cfg)

	err := fetcher.Fetch("https://example.com/v", nil)
	require.Error(t, err)
	assert.True(t, domain.IsDownloadFailure(err))
}

func TestFetch_SuccessWritesDownloadLog(t *testing.T) {
	cfg := testFetchConfig(t)
	cfg.Binary = "true" // exits 0, ignores arguments
	fetcher := NewYTDLPFetcher(cfg)

	require.NoError(t, fetcher.Fetch("https://example.com/v", nil))

	entries, err := os.ReadDir(cfg.LogsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := os.ReadFile(filepath.Join(cfg.LogsDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Download: https://example.com/v")
	assert.Contains(t, string(content), "SUCCESS")
}
