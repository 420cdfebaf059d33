package services

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	log "github.com/sirupsen/logrus"
)

// exifTimeLayout is the fixed-width format of EXIF date tags
const exifTimeLayout = "2006:01:02 15:04:05"

// CaptureTime returns the EXIF DateTimeOriginal of an image.
// The second result is false when the file has no usable capture time;
// the reason is only logged at debug level.
func CaptureTime(path string) (time.Time, bool) {
	t, err := readCaptureTime(path)
	if err != nil {
		log.WithFields(log.Fields{
			"file":  path,
			"error": err,
		}).Debug("No capture time, falling back to creation time")
		return time.Time{}, false
	}
	return t, true
}

func readCaptureTime(path string) (t time.Time, err error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	// goexif can panic on malformed tag data
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exif decode panic: %v", r)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, err
	}
	if tag.Format() != tiff.StringVal {
		return time.Time{}, fmt.Errorf("DateTimeOriginal not in string format")
	}

	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, err
	}
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))

	return time.ParseInLocation(exifTimeLayout, value, time.Local)
}

// CreationTime returns the creation time reported by the file system.
// Birth time is used where the platform records it, otherwise the inode
// change time, and the modification time as a last resort.
func CreationTime(info fs.FileInfo) time.Time {
	ts := times.Get(info)
	if ts.HasBirthTime() {
		return ts.BirthTime()
	}
	if ts.HasChangeTime() {
		return ts.ChangeTime()
	}
	return ts.ModTime()
}
