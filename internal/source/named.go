package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/KaramelBytes/titanic-cli/internal/utils"
	"github.com/go-resty/resty/v2"
)

// ErrNotCached is returned when the dataset is not in the cache and
// downloading is disabled.
var ErrNotCached = errors.New("dataset not cached and download disabled")

// NamedDataset resolves a reference dataset by name from a local cache
// directory, downloading <BaseURL>/<Name>.csv on a cache miss.
type NamedDataset struct {
	DatasetName string
	DataHome    string
	BaseURL     string
	Download    bool
	Timeout     time.Duration
	Retries     int
	Log         logger.Logger

	client *resty.Client
}

// Name returns the dataset name.
func (n *NamedDataset) Name() string { return n.DatasetName }

// CachePath is where the dataset lives on disk.
func (n *NamedDataset) CachePath() string {
	return filepath.Join(n.DataHome, n.DatasetName+".csv")
}

// Fetch returns the cached dataset, downloading it first when needed.
func (n *NamedDataset) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	if n.DatasetName == "" {
		return nil, errors.New("fallback dataset name is empty")
	}
	path := n.CachePath()
	ok, err := utils.FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("stat cache: %w", err)
	}
	if !ok {
		if !n.Download {
			return nil, fmt.Errorf("%s: %w", n.DatasetName, ErrNotCached)
		}
		if err := n.download(ctx, path); err != nil {
			return nil, err
		}
	}
	return dataset.Load(path, dataset.ReadOptions{})
}

func (n *NamedDataset) download(ctx context.Context, dest string) error {
	url := strings.TrimRight(n.BaseURL, "/") + "/" + n.DatasetName + ".csv"
	if n.Log != nil {
		n.Log.Info("Downloading reference dataset", "url", url, "cache", dest)
	}
	resp, err := n.httpClient().R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > 4<<10 {
			body = body[:4<<10]
		}
		return fmt.Errorf("fetch %s: unexpected status %s: %s", url, resp.Status(), string(body))
	}
	if err := utils.EnsureDir(n.DataHome); err != nil {
		return fmt.Errorf("create data home: %w", err)
	}
	if err := utils.SafeWriteFile(dest, resp.Body()); err != nil {
		return fmt.Errorf("cache dataset: %w", err)
	}
	return nil
}

func (n *NamedDataset) httpClient() *resty.Client {
	if n.client != nil {
		return n.client
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	n.client = resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, text/plain, */*").
		SetRetryCount(n.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)
	return n.client
}

// retryCondition retries network errors, 5xx and 429.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
