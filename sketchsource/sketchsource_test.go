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

package sketchsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arduino/go-paths-helper"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

const blinkHex = ":02004000AABB59\n:00000001FF\n"

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	cache, err := paths.MkTempDir("", "sketchsource")
	require.NoError(t, err)
	t.Cleanup(func() { cache.RemoveAll() })
	return New(append([]Option{WithCacheDir(cache)}, opts...)...)
}

func TestResolveLocal(t *testing.T) {
	dir, err := paths.MkTempDir("", "sketchsource")
	require.NoError(t, err)
	defer dir.RemoveAll()
	sketch := dir.Join("blink.hex")
	require.NoError(t, sketch.WriteFile([]byte(blinkHex)))

	r := newTestResolver(t)
	ctx := context.Background()

	res, err := r.Resolve(ctx, sketch.String())
	require.NoError(t, err)
	require.Equal(t, sketch.String(), res.String())

	res, err = r.Resolve(ctx, "file://"+sketch.String())
	require.NoError(t, err)
	require.Equal(t, sketch.String(), res.String())

	_, err = r.Resolve(ctx, dir.Join("missing.hex").String())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(ctx, dir.String())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(ctx, "")
	require.Error(t, err)
}

func TestResolveHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/sketches/blink.hex" {
			http.NotFound(w, req)
			return
		}
		io.WriteString(w, blinkHex)
	}))
	defer srv.Close()

	r := newTestResolver(t)
	res, err := r.Resolve(context.Background(), srv.URL+"/sketches/blink.hex")
	require.NoError(t, err)
	require.Equal(t, "blink.hex", res.Base())
	data, err := res.ReadFile()
	require.NoError(t, err)
	require.Equal(t, blinkHex, string(data))

	// a second resolve overwrites the cached copy
	res, err = r.Resolve(context.Background(), srv.URL+"/sketches/blink.hex")
	require.NoError(t, err)
	data, err = res.ReadFile()
	require.NoError(t, err)
	require.Equal(t, blinkHex, string(data))

	_, err = r.Resolve(context.Background(), srv.URL+"/sketches/missing.hex")
	require.Error(t, err)
}

type fakeS3 struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestResolveS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"firmware/uno/blink.hex": blinkHex}}
	r := newTestResolver(t, WithS3Client(client))

	res, err := r.Resolve(context.Background(), "s3://firmware/uno/blink.hex")
	require.NoError(t, err)
	require.Equal(t, "firmware", aws.ToString(client.input.Bucket))
	require.Equal(t, "uno/blink.hex", aws.ToString(client.input.Key))
	data, err := res.ReadFile()
	require.NoError(t, err)
	require.Equal(t, blinkHex, string(data))

	_, err = r.Resolve(context.Background(), "s3://firmware/uno/missing.hex")
	require.ErrorContains(t, err, "NoSuchKey")

	_, err = r.Resolve(context.Background(), "s3://firmware")
	require.ErrorContains(t, err, "expected s3://bucket/key")
}
