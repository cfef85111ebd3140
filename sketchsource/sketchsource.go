/*
	arduino-hexuploader
	Copyright (c) 2023 Arduino LLC.  All right reserved.

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package sketchsource turns the file name given to the uploader into a
// local file, fetching it first when it points to a remote location.
package sketchsource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/arduino/go-paths-helper"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"go.bug.st/downloader/v2"
)

// ErrNotFound is returned when a local sketch file does not exist.
var ErrNotFound = errors.New("sketch file not found")

// S3GetObjectAPI is the subset of the S3 client used to fetch sketches.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Resolver resolves sketch file names.
type Resolver struct {
	cacheDir *paths.Path
	s3Region string

	s3Once   sync.Once
	s3Client S3GetObjectAPI
	s3Err    error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCacheDir sets the directory where remote sketches are stored.
func WithCacheDir(dir *paths.Path) Option {
	return func(r *Resolver) { r.cacheDir = dir }
}

// WithS3Client sets the client used for s3:// locations.
func WithS3Client(client S3GetObjectAPI) Option {
	return func(r *Resolver) { r.s3Client = client }
}

// WithS3Region sets the region of the default S3 client.
func WithS3Region(region string) Option {
	return func(r *Resolver) { r.s3Region = region }
}

// New creates a Resolver. Without a cache dir remote files are stored in
// the system temp dir.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.cacheDir == nil {
		r.cacheDir = paths.TempDir().Join("arduino-hexuploader")
	}
	return r
}

// Resolve returns the local path of the sketch called name. Supported forms
// are plain paths, file://, http://, https:// and s3:// URLs.
func (r *Resolver) Resolve(ctx context.Context, name string) (*paths.Path, error) {
	if name == "" {
		return nil, errors.New("missing sketch file name")
	}
	u, err := url.Parse(name)
	if err != nil || u.Scheme == "" {
		return resolveLocal(paths.New(name))
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return resolveLocal(paths.New(u.Path))
	case "http", "https":
		return r.download(u)
	case "s3":
		return r.fetchS3(ctx, u)
	}
	// windows drive letters look like schemes
	return resolveLocal(paths.New(name))
}

func resolveLocal(p *paths.Path) (*paths.Path, error) {
	info, err := p.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return p, nil
}

func (r *Resolver) target(parts ...string) (*paths.Path, error) {
	dest := r.cacheDir.Join(parts...)
	if err := dest.Parent().MkdirAll(); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if dest.Exist() {
		if err := dest.Remove(); err != nil {
			return nil, err
		}
	}
	return dest, nil
}

func (r *Resolver) download(u *url.URL) (*paths.Path, error) {
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "sketch.hex"
	}
	dest, err := r.target("http", u.Host, name)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Downloading %s", u)
	d, err := downloader.Download(dest.String(), u.String())
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", u, err)
	}
	if err := Download(d); err != nil {
		dest.Remove()
		return nil, fmt.Errorf("downloading %s: %w", u, err)
	}
	logrus.Debugf("sketch downloaded in %s", dest)
	return dest, nil
}

// Download will take a downloader.Downloader as parameter. It will Download the file specified in the downloader
func Download(d *downloader.Downloader) error {
	if d == nil {
		// This signal means that the file is already downloaded
		return nil
	}
	if err := d.Run(); err != nil {
		return fmt.Errorf("failed to download file from %s : %s", d.URL, err)
	}
	// The URL is not reachable for some reason
	if d.Resp.StatusCode >= 400 && d.Resp.StatusCode <= 599 {
		return errors.New(d.Resp.Status)
	}
	return nil
}

func (r *Resolver) client(ctx context.Context) (S3GetObjectAPI, error) {
	r.s3Once.Do(func() {
		if r.s3Client != nil {
			return
		}
		var opts []func(*config.LoadOptions) error
		if r.s3Region != "" {
			opts = append(opts, config.WithRegion(r.s3Region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			r.s3Err = fmt.Errorf("loading aws config: %w", err)
			return
		}
		r.s3Client = s3.NewFromConfig(cfg)
	})
	return r.s3Client, r.s3Err
}

func (r *Resolver) fetchS3(ctx context.Context, u *url.URL) (*paths.Path, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 location %s: expected s3://bucket/key", u)
	}
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Fetching s3://%s/%s", bucket, key)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	dest, err := r.target("s3", bucket, path.Base(key))
	if err != nil {
		return nil, err
	}
	f, err := dest.Create()
	if err != nil {
		return nil, err
	}
	if _, err := f.ReadFrom(out.Body); err != nil {
		f.Close()
		dest.Remove()
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return dest, nil
}
