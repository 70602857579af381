package s3

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const urlScheme = "s3"

type AwsS3Bucket struct {
	Name   string `errorTxt:"bucket name" mandatory:"yes"`
	Prefix string `errorTxt:"bucket prefix"`
	Region string `errorTxt:"bucket region" mandatory:"yes"`
}

// IsURL returns true if p looks like s3://<bucket>/<key>.
func IsURL(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), urlScheme+"://")
}

// ParseDSN expects bucketPrefix to be of the form [s3://]<bucket>/<prefix>
// It returns an AwsS3Bucket populated with the components of bucketPrefix and the supplied region.
// If there is a parsing error it returns an error.
func ParseDSN(bucketPrefix string, region string) (retval AwsS3Bucket, err error) {
	if !strings.Contains(bucketPrefix, "://") { // if there is no scheme...
		bucketPrefix = urlScheme + "://" + bucketPrefix // url.Parse needs one to find the host.
	}
	s3url, err := url.Parse(bucketPrefix)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if s3url.Scheme != urlScheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", urlScheme, s3url.Scheme)
	}
	if region == "" {
		return retval, fmt.Errorf("value expected for bucket region")
	}
	retval.Name = s3url.Host
	if retval.Name == "" {
		return retval, fmt.Errorf("DSN failed to parse bucket name")
	}
	retval.Prefix = strings.Trim(s3url.Path, "/")
	retval.Region = region
	return
}

// SplitKey returns the directory part of the bucket prefix and the final object name.
func (b AwsS3Bucket) SplitKey() (dir string, name string) {
	dir, name = path.Split(b.Prefix)
	return strings.TrimRight(dir, "/"), name
}
