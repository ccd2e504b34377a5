// Package fetch downloads remote source files into a local cache directory.
//
// HTTP(S) goes through resty; ftp:// URLs use an anonymous FTP session.
// Files are written to <dest>.tmp and renamed into place so a reader never
// sees a partial download.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jlaffaye/ftp"
)

// ErrUnsupportedScheme is returned for URLs other than http, https and ftp.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Downloader fetches URLs into files.
type Downloader struct {
	client  *resty.Client
	timeout time.Duration
}

// NewDownloader creates a downloader with a per-request timeout and an
// HTTP retry count (0 disables retries).
func NewDownloader(timeout time.Duration, retries int) *Downloader {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(2 * time.Second)

	return &Downloader{
		client:  client,
		timeout: timeout,
	}
}

// Download retrieves rawURL into destPath and returns the byte count.
func (d *Downloader) Download(ctx context.Context, rawURL, destPath string) (int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parse URL %s: %w", rawURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		return d.downloadHTTP(ctx, rawURL, destPath)
	case "ftp":
		return d.downloadFTP(ctx, u, destPath)
	default:
		return 0, fmt.Errorf("%s: %w", rawURL, ErrUnsupportedScheme)
	}
}

func (d *Downloader) downloadHTTP(ctx context.Context, rawURL, destPath string) (int64, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return 0, fmt.Errorf("HTTP GET failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	return writeAtomic(destPath, body)
}

func (d *Downloader) downloadFTP(ctx context.Context, u *url.URL, destPath string) (int64, error) {
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "21")
	}

	c, err := ftp.Dial(host, ftp.DialWithTimeout(d.timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("FTP dial failed: %w", err)
	}
	defer c.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := c.Login(user, pass); err != nil {
		return 0, fmt.Errorf("FTP login failed: %w", err)
	}

	r, err := c.Retr(u.Path)
	if err != nil {
		return 0, fmt.Errorf("FTP RETR %s failed: %w", u.Path, err)
	}
	defer r.Close()

	return writeAtomic(destPath, r)
}

// writeAtomic copies r into destPath via a temporary file and rename.
func writeAtomic(destPath string, r io.Reader) (int64, error) {
	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create file failed: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename failed: %w", err)
	}

	return n, nil
}
